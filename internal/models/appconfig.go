// internal/models/appconfig.go
package models

// AppConfig is the singleton branding/contact record. Exactly one row is
// expected; consumers fall back to DefaultAppConfig when it is missing or
// the fetch fails, so branding never renders empty.
type AppConfig struct {
	ID           string `json:"id"`
	AppName      string `json:"appName"`
	LogoURL      string `json:"logoUrl"`
	TwitterURL   string `json:"twitterUrl"`
	InstagramURL string `json:"instagramUrl"`
	LinkedinURL  string `json:"linkedinUrl"`
	ContactEmail string `json:"contactEmail"`
}

// DefaultAppConfig returns the hardcoded branding used while the singleton
// row is pending or unreachable.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		ID:           "default",
		AppName:      "Pharmelo",
		LogoURL:      "",
		TwitterURL:   "https://twitter.com/pharmelo",
		InstagramURL: "https://instagram.com/pharmelo",
		LinkedinURL:  "https://linkedin.com/company/pharmelo",
		ContactEmail: "hello@pharmelo.com",
	}
}
