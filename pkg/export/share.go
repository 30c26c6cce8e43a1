package export

import (
	"net/url"

	"github.com/ethanbaker/tubescript/pkg/script"
)

// Links are prefilled share URLs for social networks
type Links struct {
	Twitter  string `json:"twitter"`
	LinkedIn string `json:"linkedin"`
}

// ShareLinks builds share intents announcing s, pointing at pageURL
func ShareLinks(s script.GeneratedScript, pageURL string) Links {
	twitter := url.URL{Scheme: "https", Host: "twitter.com", Path: "/intent/tweet"}
	twitter.RawQuery = url.Values{
		"text": {"New YouTube script generated with TubeScript: " + s.Title},
		"url":  {pageURL},
	}.Encode()

	linkedin := url.URL{Scheme: "https", Host: "www.linkedin.com", Path: "/sharing/share-offsite/"}
	linkedin.RawQuery = url.Values{"url": {pageURL}}.Encode()

	return Links{
		Twitter:  twitter.String(),
		LinkedIn: linkedin.String(),
	}
}
