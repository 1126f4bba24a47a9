package models

// SettingBroadcastGraphics is the settings key holding the BroadcastGraphics blob.
const SettingBroadcastGraphics = "broadcast_graphics"

const SceneStandby = "STANDBY"

// BroadcastGraphics is the overlay configuration the storefront polls for.
type BroadcastGraphics struct {
	TickerText          string `json:"tickerText"`
	ShowTicker          bool   `json:"showTicker"`
	TickerSpeed         int    `json:"tickerSpeed"`
	LogoURL             string `json:"logoUrl"`
	LogoPosition        string `json:"logoPosition"`
	GraphicTheme        string `json:"graphicTheme"`
	LowerThirdTitle     string `json:"lowerThirdTitle"`
	LowerThirdSubtitle  string `json:"lowerThirdSubtitle"`
	IsLowerThirdVisible bool   `json:"isLowerThirdVisible"`
	ShowChatOverlay     bool   `json:"showChatOverlay"`
	ActiveScene         string `json:"activeScene"`
	StreamURL           string `json:"streamUrl,omitempty"`
}

type Setting struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}
