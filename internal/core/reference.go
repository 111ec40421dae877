package core

import "strings"

// StateInfo holds descriptive fields for a state.
type StateInfo struct {
	Capital    string
	Population string
}

// Reference is read-only lookup data shared by every aggregation. Build it once with
// NewReference and never mutate it afterwards.
type Reference struct {
	nameToCode map[string]string
	codeToName map[string]string
	info       map[string]StateInfo
	fipsToCode map[string]string
}

// StateEntry is one row of reference data used to build a Reference.
type StateEntry struct {
	Name string
	Code string
	FIPS string
	Info *StateInfo
}

// NewReference indexes entries by display name, code and FIPS id. Names and codes are
// stored trimmed and matched case-sensitively.
func NewReference(entries []StateEntry) *Reference {
	r := &Reference{
		nameToCode: make(map[string]string, len(entries)),
		codeToName: make(map[string]string, len(entries)),
		info:       make(map[string]StateInfo, len(entries)),
		fipsToCode: make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		code := strings.TrimSpace(e.Code)
		if name == "" || code == "" {
			continue
		}
		r.nameToCode[name] = code
		r.codeToName[code] = name
		if e.Info != nil {
			r.info[code] = *e.Info
		}
		if fips := strings.TrimSpace(e.FIPS); fips != "" {
			r.fipsToCode[fips] = code
		}
	}
	return r
}

// Code resolves a display name to its two-letter code. Only surrounding whitespace is
// ignored; case must match.
func (r *Reference) Code(name string) (string, bool) {
	code, ok := r.nameToCode[strings.TrimSpace(name)]
	return code, ok
}

// Name returns the display name for a code.
func (r *Reference) Name(code string) (string, bool) {
	name, ok := r.codeToName[code]
	return name, ok
}

// Info returns capital and population for a code, defaulting both to Unknown.
func (r *Reference) Info(code string) StateInfo {
	info, ok := r.info[code]
	if !ok {
		return StateInfo{Capital: Unknown, Population: Unknown}
	}
	if info.Capital == "" {
		info.Capital = Unknown
	}
	if info.Population == "" {
		info.Population = Unknown
	}
	return info
}

// CodeForFIPS maps a map geography id (two-digit FIPS) to a state code.
func (r *Reference) CodeForFIPS(id string) (string, bool) {
	id = strings.TrimSpace(id)
	if len(id) == 1 {
		id = "0" + id
	}
	code, ok := r.fipsToCode[id]
	return code, ok
}

// Len returns the number of known states.
func (r *Reference) Len() int {
	return len(r.codeToName)
}

var defaultReference = NewReference(usStates)

// DefaultReference returns the built-in US table.
func DefaultReference() *Reference {
	return defaultReference
}

func stateInfo(capital, population string) *StateInfo {
	return &StateInfo{Capital: capital, Population: population}
}

// usStates lists the 50 states plus DC and Puerto Rico. DC and PR have no descriptive
// entry and report Unknown capital and population.
var usStates = []StateEntry{
	{"Alabama", "AL", "01", stateInfo("Montgomery", "5.1M")},
	{"Alaska", "AK", "02", stateInfo("Juneau", "733K")},
	{"Arizona", "AZ", "04", stateInfo("Phoenix", "7.4M")},
	{"Arkansas", "AR", "05", stateInfo("Little Rock", "3.1M")},
	{"California", "CA", "06", stateInfo("Sacramento", "39.5M")},
	{"Colorado", "CO", "08", stateInfo("Denver", "5.8M")},
	{"Connecticut", "CT", "09", stateInfo("Hartford", "3.6M")},
	{"Delaware", "DE", "10", stateInfo("Dover", "1.0M")},
	{"District of Columbia", "DC", "11", nil},
	{"Florida", "FL", "12", stateInfo("Tallahassee", "22.2M")},
	{"Georgia", "GA", "13", stateInfo("Atlanta", "10.9M")},
	{"Hawaii", "HI", "15", stateInfo("Honolulu", "1.4M")},
	{"Idaho", "ID", "16", stateInfo("Boise", "1.9M")},
	{"Illinois", "IL", "17", stateInfo("Springfield", "12.6M")},
	{"Indiana", "IN", "18", stateInfo("Indianapolis", "6.8M")},
	{"Iowa", "IA", "19", stateInfo("Des Moines", "3.2M")},
	{"Kansas", "KS", "20", stateInfo("Topeka", "2.9M")},
	{"Kentucky", "KY", "21", stateInfo("Frankfort", "4.5M")},
	{"Louisiana", "LA", "22", stateInfo("Baton Rouge", "4.6M")},
	{"Maine", "ME", "23", stateInfo("Augusta", "1.4M")},
	{"Maryland", "MD", "24", stateInfo("Annapolis", "6.2M")},
	{"Massachusetts", "MA", "25", stateInfo("Boston", "7.0M")},
	{"Michigan", "MI", "26", stateInfo("Lansing", "10.1M")},
	{"Minnesota", "MN", "27", stateInfo("Saint Paul", "5.7M")},
	{"Mississippi", "MS", "28", stateInfo("Jackson", "2.9M")},
	{"Missouri", "MO", "29", stateInfo("Jefferson City", "6.2M")},
	{"Montana", "MT", "30", stateInfo("Helena", "1.1M")},
	{"Nebraska", "NE", "31", stateInfo("Lincoln", "2.0M")},
	{"Nevada", "NV", "32", stateInfo("Carson City", "3.2M")},
	{"New Hampshire", "NH", "33", stateInfo("Concord", "1.4M")},
	{"New Jersey", "NJ", "34", stateInfo("Trenton", "9.3M")},
	{"New Mexico", "NM", "35", stateInfo("Santa Fe", "2.1M")},
	{"New York", "NY", "36", stateInfo("Albany", "19.8M")},
	{"North Carolina", "NC", "37", stateInfo("Raleigh", "10.7M")},
	{"North Dakota", "ND", "38", stateInfo("Bismarck", "779K")},
	{"Ohio", "OH", "39", stateInfo("Columbus", "11.8M")},
	{"Oklahoma", "OK", "40", stateInfo("Oklahoma City", "4.0M")},
	{"Oregon", "OR", "41", stateInfo("Salem", "4.2M")},
	{"Pennsylvania", "PA", "42", stateInfo("Harrisburg", "13.0M")},
	{"Rhode Island", "RI", "44", stateInfo("Providence", "1.1M")},
	{"South Carolina", "SC", "45", stateInfo("Columbia", "5.3M")},
	{"South Dakota", "SD", "46", stateInfo("Pierre", "909K")},
	{"Tennessee", "TN", "47", stateInfo("Nashville", "7.1M")},
	{"Texas", "TX", "48", stateInfo("Austin", "30.5M")},
	{"Utah", "UT", "49", stateInfo("Salt Lake City", "3.4M")},
	{"Vermont", "VT", "50", stateInfo("Montpelier", "647K")},
	{"Virginia", "VA", "51", stateInfo("Richmond", "8.7M")},
	{"Washington", "WA", "53", stateInfo("Olympia", "7.8M")},
	{"West Virginia", "WV", "54", stateInfo("Charleston", "1.8M")},
	{"Wisconsin", "WI", "55", stateInfo("Madison", "5.9M")},
	{"Wyoming", "WY", "56", stateInfo("Cheyenne", "581K")},
	{"Puerto Rico", "PR", "72", nil},
}
