package persistence

// processedPlayers файл YYYYMMDDprocessed.json.
type processedPlayers struct {
	Ids []string `json:"Ids"`
}

func newProcessedPlayers() processedPlayers {
	return processedPlayers{Ids: []string{}}
}

// dealPlayers файл YYYYMMDDdeals.json, по строке entity.DealRecord на сделку.
type dealPlayers struct {
	Info []string `json:"Info"`
}

func newDealPlayers() dealPlayers {
	return dealPlayers{Info: []string{}}
}
