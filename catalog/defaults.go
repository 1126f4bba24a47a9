package catalog

import "pizzeria-service/models"

func pizza(id, name, desc string, prices map[string]int64) models.Product {
	return models.Product{ID: id, Name: name, Description: desc, Prices: prices, Category: models.CategoryPizzas, IsActive: models.Bool(true)}
}

func drink(id, name, desc string, price int64) models.Product {
	return models.Product{ID: id, Name: name, Description: desc, Prices: map[string]int64{models.SizeUnit: price}, Category: models.CategoryDrinks, IsActive: models.Bool(true)}
}

func sizes(familiar, medium, small int64) map[string]int64 {
	p := map[string]int64{}
	if familiar > 0 {
		p[models.SizeFamiliar] = familiar
	}
	if medium > 0 {
		p[models.SizeMedium] = medium
	}
	if small > 0 {
		p[models.SizeSmall] = small
	}
	return p
}

var defaultPizzas = []models.Product{
	pizza("1", "MARGUERITA", "Queijo mussarela, gouda, orégano e molho tomate", sizes(800, 750, 500)),
	pizza("2", "4 QUEIJOS", "Queijo mussarela, queijo azul, edem e fogo e molho tomate", sizes(950, 850, 650)),
	pizza("3", "FIAMBRE", "Fiambre, Queijo e molho tomate", sizes(850, 800, 600)),
	pizza("4", "FRANGO", "Frango, queijo, molho tomate", sizes(850, 850, 600)),
	pizza("5", "CHOURIÇO", "Chouriço Queijo e molho tomate", sizes(850, 800, 550)),
	pizza("6", "BACON", "Bacon, queijo, molho tomate", sizes(850, 800, 550)),
	pizza("7", "PRESUNTO", "Presunto, queijo, molho tomate", sizes(850, 800, 550)),
	pizza("8", "LINGUIÇA E TERRA", "Linguiça, queijo da terra e molho tomate", sizes(900, 850, 600)),
	pizza("9", "CARNE MOIDA", "Carne moída, queijo, molho tomate", sizes(900, 850, 600)),
	pizza("10", "ATUM", "Atum, cebola, queijo, molho tomate", sizes(900, 850, 650)),
	pizza("11", "VEGETARIANO", "Cebola, tomate, pimentão, cogumelo, queijo, molho tomate", sizes(900, 850, 600)),
	pizza("12", "ESPECIAL DA CASA", "Bacon, cogumelo, nata, queijo, molho tomate", sizes(900, 850, 650)),
	pizza("13", "QUATRO ESTAÇÕES", "Cogumelo, Fiambre, Chouriço, atum, queijo e tomate", sizes(1000, 850, 0)),
	pizza("14", "TROPICAL", "Frutas da época, queijo, molho tomate", sizes(900, 850, 600)),
	pizza("15", "MARISCO", "Marisco, queijo, molho tomate", sizes(1200, 1000, 0)),
	pizza("16", "CAMARÃO", "Camarão, queijo, molho tomate", sizes(1200, 1000, 0)),
	pizza("17", "MADA", "Queijo, tomate, Chouriço, Bacon, Camarão e Ananás", sizes(1500, 0, 0)),
	pizza("18", "CALZONE", "Recheio à escolha com queijo e molho tomate", sizes(850, 0, 0)),
}

var defaultDrinks = []models.Product{
	drink("d1", "ÁGUA", "Água mineral", 100),
	drink("d2", "COCA-COLA", "Refrigerante Coca-Cola", 300),
	drink("d3", "FANTA LARANJA", "Refrigerante Fanta Laranja", 150),
	drink("d4", "CERVEJA", "Cerveja local", 200),
	drink("d5", "SUMO NATURAL", "Sumo natural da casa", 200),
	drink("d6", "VINHO TINTO", "Vinho tinto da região", 500),
}

var defaultZones = []models.DeliveryZone{
	{ID: "z1", Name: "Terra Branca", Price: 50, Time: "15-25 min"},
	{ID: "z2", Name: "Tira Chapéu", Price: 100, Time: "15-25 min"},
	{ID: "z3", Name: "Bela Vista", Price: 150, Time: "20-30 min"},
	{ID: "z4", Name: "Zona Quelém", Price: 150, Time: "20-30 min"},
	{ID: "z5", Name: "Fundo Cobom", Price: 150, Time: "20-30 min"},
	{ID: "z6", Name: "Várzea", Price: 150, Time: "20-30 min"},
	{ID: "z7", Name: "Achadinha", Price: 200, Time: "25-35 min"},
	{ID: "z8", Name: "Alto Glória", Price: 200, Time: "25-35 min"},
	{ID: "z9", Name: "Achada Santo António", Price: 200, Time: "25-35 min"},
	{ID: "z10", Name: "Bairro Craveiro Lopes", Price: 200, Time: "25-35 min"},
	{ID: "z11", Name: "Cidadela", Price: 200, Time: "25-35 min"},
	{ID: "z12", Name: "Fazenda", Price: 200, Time: "25-35 min"},
	{ID: "z13", Name: "Quebra Canela", Price: 200, Time: "25-35 min"},
	{ID: "z14", Name: "Monte Vermelho", Price: 200, Time: "25-35 min"},
	{ID: "z15", Name: "Palmarejo Grande", Price: 200, Time: "25-35 min"},
	{ID: "z16", Name: "Praia Negra", Price: 200, Time: "25-35 min"},
	{ID: "z17", Name: "Plateau", Price: 200, Time: "25-35 min"},
	{ID: "z18", Name: "Prainha", Price: 200, Time: "25-35 min"},
	{ID: "z19", Name: "Achadinha Pires", Price: 250, Time: "30-40 min"},
	{ID: "z20", Name: "Campus Unicv", Price: 250, Time: "30-40 min"},
	{ID: "z21", Name: "Cova Minhoto", Price: 250, Time: "30-40 min"},
	{ID: "z22", Name: "Calabaceira", Price: 250, Time: "30-40 min"},
	{ID: "z23", Name: "Coqueiro", Price: 250, Time: "30-40 min"},
	{ID: "z24", Name: "Castelão", Price: 250, Time: "30-40 min"},
	{ID: "z25", Name: "Lém Ferreira", Price: 200, Time: "25-35 min"},
	{ID: "z26", Name: "Ponta Água", Price: 250, Time: "30-40 min"},
	{ID: "z27", Name: "Pensamento", Price: 250, Time: "30-40 min"},
	{ID: "z28", Name: "Palmarejo", Price: 250, Time: "30-40 min"},
	{ID: "z29", Name: "Safende", Price: 250, Time: "30-40 min"},
	{ID: "z30", Name: "Vila Nova", Price: 250, Time: "30-40 min"},
	{ID: "z31", Name: "Achada São Filipe", Price: 300, Time: "35-45 min"},
	{ID: "z32", Name: "Achada Grande Frente", Price: 300, Time: "35-45 min"},
	{ID: "z33", Name: "Achada Grande Trás", Price: 300, Time: "35-45 min"},
	{ID: "z34", Name: "Achada Eugênio Lima", Price: 300, Time: "35-45 min"},
	{ID: "z35", Name: "Achada Mato", Price: 300, Time: "35-45 min"},
	{ID: "z36", Name: "São Pedro Latada", Price: 300, Time: "35-45 min"},
}

var defaultExtras = []models.Extra{
	{Name: "Queijo Extra", Price: 100},
	{Name: "Bacon Extra", Price: 150},
	{Name: "Ananás", Price: 100},
	{Name: "Cogumelo", Price: 100},
	{Name: "Nata", Price: 70},
	{Name: "Camarão", Price: 300},
	{Name: "Ovo", Price: 50},
}

// DefaultProducts returns the built-in menu, pizzas first. Callers own the result.
func DefaultProducts() []models.Product {
	out := make([]models.Product, 0, len(defaultPizzas)+len(defaultDrinks))
	for _, p := range defaultPizzas {
		out = append(out, p.Clone())
	}
	for _, p := range defaultDrinks {
		out = append(out, p.Clone())
	}
	return out
}

func DefaultCategories() []models.Category {
	return []models.Category{
		{ID: models.CategoryPizzas, Name: models.CategoryPizzas},
		{ID: models.CategoryDrinks, Name: models.CategoryDrinks},
	}
}

func DefaultZones() []models.DeliveryZone {
	out := make([]models.DeliveryZone, len(defaultZones))
	copy(out, defaultZones)
	return out
}

// Extras is the list of toppings a pizza line can carry.
func Extras() []models.Extra {
	out := make([]models.Extra, len(defaultExtras))
	copy(out, defaultExtras)
	return out
}
