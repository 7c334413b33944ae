package geomodel

import "github.com/mailru/easyjson/jwriter"

// InfoList is the batch response body for multi-point reverse-geocode
// requests. MarshalJSON is hand-written against easyjson's jwriter buffer
// instead of encoding/json reflection, since this runs once per element of
// a potentially large request body.
type InfoList []Info

func (l InfoList) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	w.RawByte('[')
	for i, info := range l {
		if i > 0 {
			w.RawByte(',')
		}
		w.RawByte('{')
		w.RawString(`"name":`)
		w.String(info.Name)
		w.RawString(`,"street":`)
		w.String(info.Street)
		w.RawString(`,"house_number":`)
		w.String(info.HouseNumber)
		w.RawString(`,"city":`)
		w.String(info.City)
		w.RawString(`,"region":`)
		w.String(info.Region)
		w.RawByte('}')
	}
	w.RawByte(']')
	return w.BuildBytes()
}
