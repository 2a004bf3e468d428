package footballdata

// Payload types mirror the football-data.org v4 response schema. Decoding into
// these structs up front keeps normalization free of shape probing; optional
// provider fields stay pointers so absence is distinguishable from zero.

type matchesEnvelope struct {
	Matches []matchPayload `json:"matches"`
}

type matchPayload struct {
	ID            int64               `json:"id"`
	UTCDate       string              `json:"utcDate"`
	Date          string              `json:"date"`
	Status        string              `json:"status"`
	Minute        *int                `json:"minute"`
	Venue         string              `json:"venue"`
	HomeTeam      teamPayload         `json:"homeTeam"`
	AwayTeam      teamPayload         `json:"awayTeam"`
	Score         scorePayload        `json:"score"`
	Competition   *competitionPayload `json:"competition"`
	CompetitionID *int64              `json:"competitionId"`
	Area          areaPayload         `json:"area"`
}

type teamPayload struct {
	ID    *int64 `json:"id"`
	Name  string `json:"name"`
	Crest string `json:"crest"`
	Logo  string `json:"logo"`
}

type scorePayload struct {
	FullTime *scorePair `json:"fullTime"`
	Home     *int       `json:"home"`
	Away     *int       `json:"away"`
}

type scorePair struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type competitionPayload struct {
	ID     *int64      `json:"id"`
	Name   string      `json:"name"`
	Emblem string      `json:"emblem"`
	Area   areaPayload `json:"area"`
}

type areaPayload struct {
	Name string `json:"name"`
	Flag string `json:"flag"`
}

type competitionsEnvelope struct {
	Competitions []competitionDetail `json:"competitions"`
}

type competitionDetail struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Code          string         `json:"code"`
	Emblem        string         `json:"emblem"`
	Area          areaPayload    `json:"area"`
	CurrentSeason *seasonPayload `json:"currentSeason"`
}

type seasonPayload struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}
