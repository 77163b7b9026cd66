// Package checkout is a minimal client for the checkout orders API: create an
// order, look it up, and capture it once the buyer has approved it.
//
// Authentication is the HTTP client's job. Build it with httpclient so each
// request carries the live token of an oauth2client.RefreshingToken:
//
//	api, err := httpclient.NewBuilder().WithTokenProvider(rt).Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	orders := checkout.NewClient(oauth2client.SandboxBaseURL, api)
//	order, err := orders.GetOrder(ctx, "5O190127TN364715T")
package checkout
