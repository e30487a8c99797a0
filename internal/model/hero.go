package model

// HeroSection is a slide in the landing page hero carousel.
type HeroSection struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle,omitempty"`
	MediaURL     string `json:"media_url"`
	MediaType    string `json:"media_type,omitempty"`
	CTAText      string `json:"cta_text,omitempty"`
	CTALink      string `json:"cta_link,omitempty"`
	DisplayOrder int    `json:"display_order"`
}
