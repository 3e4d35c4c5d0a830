package models

// CellObservation is one observed cell inside a measurement report,
// identified by radio name plus the numeric identity fields.
type CellObservation struct {
	Radio  string `json:"radio"`
	MCC    int    `json:"mcc"`
	MNC    int    `json:"mnc"`
	LAC    int    `json:"lac"`
	CID    int    `json:"cid"`
	PSC    int    `json:"psc"`
	Signal int    `json:"signal,omitempty"`
}

// Source exposes the observation as a mapping-shaped key source. The
// radio name is translated to its stored code; unknown names map to -1
// and fail key validation downstream.
func (o CellObservation) Source() MapSource {
	return MapSource{
		"radio": RadioType(o.Radio),
		"mcc":   o.MCC,
		"mnc":   o.MNC,
		"lac":   o.LAC,
		"cid":   o.CID,
		"psc":   o.PSC,
	}
}

// Report is a single position measurement with the cells observed there.
type Report struct {
	Lat      float64           `json:"lat"`
	Lon      float64           `json:"lon"`
	Accuracy float64           `json:"accuracy"`
	Time     string            `json:"time,omitempty"`
	Cell     []CellObservation `json:"cell"`
}

// SubmitRequest is the body of POST /v1/submit.
type SubmitRequest struct {
	Items []Report `json:"items" binding:"required"`
}

// SubmitResult summarizes an accepted submission batch.
type SubmitResult struct {
	Accepted int `json:"accepted"`
	Dropped  int `json:"dropped"`
}

// CellTower is one network element in a geolocate query.
type CellTower struct {
	RadioType         string `json:"radioType"`
	MobileCountryCode int    `json:"mobileCountryCode"`
	MobileNetworkCode int    `json:"mobileNetworkCode"`
	LocationAreaCode  int    `json:"locationAreaCode"`
	CellID            int    `json:"cellId"`
	PSC               *int   `json:"psc,omitempty"`
}

// GeolocateRequest is the body of POST /v1/geolocate.
type GeolocateRequest struct {
	CellTowers []CellTower `json:"cellTowers" binding:"required"`
}

// GeolocateResult is a position estimate with its accuracy radius in
// meters and the data source that produced it.
type GeolocateResult struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Accuracy float64 `json:"accuracy"`
	Source   string  `json:"source"`
}
