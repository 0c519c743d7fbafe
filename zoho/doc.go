// Package zoho provides a client for the Zoho Books API.
//
// The client authenticates with the OAuth2 refresh-token flow: a
// long-lived refresh token is exchanged for short-lived access tokens,
// which are refreshed lazily shortly before they expire. Data calls
// retry transient upstream failures (network errors and 5xx responses)
// according to a configurable policy; authentication failures surface
// immediately and are never retried.
//
// # Usage
//
//	client, err := zoho.NewClient(cfg.Zoho, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	invoices, err := client.GetInvoices(ctx, "2024-01-01", "2024-01-31", "overdue")
package zoho
