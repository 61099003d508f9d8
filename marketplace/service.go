// Package marketplace holds the typed calls to the vendors, products and health
// endpoints. Every call goes through the shared apiclient, so credentials and
// the 401 policy apply uniformly.
package marketplace

import "github.com/jrsteele09/b2bmarket-portal/apiclient"

type Service struct {
	client *apiclient.Client
}

func New(client *apiclient.Client) *Service {
	return &Service{client: client}
}
