package models

// CellBoundsFilter represents filter parameters for querying cells
// around a point. Radius is in meters.
type CellBoundsFilter struct {
	Lat    float64 `form:"lat" binding:"required"`
	Lon    float64 `form:"lon" binding:"required"`
	Radius float64 `form:"radius"`
	Limit  int     `form:"limit"`
}

// AreaKeyFilter represents the identity of a location area in query
// parameters.
type AreaKeyFilter struct {
	Radio string `form:"radio" binding:"required"`
	MCC   int    `form:"mcc" binding:"required"`
	MNC   int    `form:"mnc"`
	LAC   int    `form:"lac"`
}

// Key converts the filter to an area key; ok is false for an unknown
// radio name.
func (f AreaKeyFilter) Key() (CellAreaKey, bool) {
	radio := RadioType(f.Radio)
	if radio < 0 {
		return CellAreaKey{}, false
	}
	return CellAreaKey{Radio: radio, MCC: f.MCC, MNC: f.MNC, LAC: f.LAC}, true
}
