// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package model

import (
	"fmt"
	"time"
)

type Region string

const (
	RegionEU Region = "eu"
	RegionUS Region = "us"
)

const (
	DefaultRegion          = RegionEU
	TeamBlueprintID        = "_team"
	DefaultActionsVersion  = "v2"
	DefaultMinTokenTTL     = 5 * time.Second
	DefaultReportDirectory = "output"
)

var RegionBaseURLs = map[Region]string{
	RegionEU: "https://api.getport.io",
	RegionUS: "https://api.us.getport.io",
}

func (r Region) Valid() bool {
	_, ok := RegionBaseURLs[r]
	return ok
}

// Credentials is the content of the user supplied config.json.
type Credentials struct {
	ClientID     string `json:"CLIENT_ID" env:"PORT_CLIENT_ID,overwrite"`
	ClientSecret string `json:"CLIENT_SECRET" env:"PORT_CLIENT_SECRET,overwrite"`
	Region       Region `json:"REGION,omitempty" env:"PORT_REGION,overwrite"`
	BaseURL      string `json:"BASE_URL,omitempty" env:"PORT_BASE_URL,overwrite"`
}

// RedactedClientID keeps just enough of the client id to recognise it in logs.
func (c Credentials) RedactedClientID() string {
	if len(c.ClientID) <= 10 {
		return "..."
	}

	return c.ClientID[:6] + "..." + c.ClientID[len(c.ClientID)-4:]
}

type APIConfig struct {
	URL            string
	TeamBlueprint  string
	ActionsVersion string
	MinTokenTTL    time.Duration
}

func NewAPIConfig(creds Credentials) (APIConfig, error) {
	url := creds.BaseURL
	if url == "" {
		region := creds.Region
		if region == "" {
			region = DefaultRegion
		}

		var ok bool
		url, ok = RegionBaseURLs[region]
		if !ok {
			return APIConfig{}, fmt.Errorf("unknown region %q", region)
		}
	}

	return APIConfig{
		URL:            url,
		TeamBlueprint:  TeamBlueprintID,
		ActionsVersion: DefaultActionsVersion,
		MinTokenTTL:    DefaultMinTokenTTL,
	}, nil
}

type Config struct {
	Credentials Credentials
	API         APIConfig
}
