package league

import "fmt"

// League is a competition mirrored from the provider's catalog. Rows are
// created and updated by league sync only and never deleted.
type League struct {
	ID         int64  `json:"id"`
	ProviderID *int64 `json:"apiId"`
	Name       string `json:"name"`
	Country    string `json:"country"`
	LogoURL    string `json:"logo"`
	FlagURL    string `json:"flag"`
	Season     *int   `json:"season"`
	Active     bool   `json:"active"`
}

func (l League) Validate() error {
	if l.ProviderID == nil || *l.ProviderID <= 0 {
		return fmt.Errorf("league provider id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}

	return nil
}
