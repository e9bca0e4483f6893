package api

// ScripMasterResponse from GET /{endpoint}
type ScripMasterResponse struct {
	Data []APIScrip `json:"data"`
}

// APIScrip is one scrip master row. Every field is published as a string.
type APIScrip struct {
	Exchange      string `json:"exchange"`
	Token         string `json:"token"`
	LotSize       string `json:"lotsize"`
	Symbol        string `json:"symbol"`
	TradingSymbol string `json:"tradingsymbol"`
	Expiry        string `json:"expiry"`
	Instrument    string `json:"instrument"`
	OptionType    string `json:"optiontype"`
	Strike        string `json:"strike"`
}
