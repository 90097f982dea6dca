// Package vpapi is a client for the Video Promotion API.
//
// Every request is a GET against BaseURL with the partner credentials
// (psid and accessKey) added to the query. Responses wrap their payload
// in a "data" envelope which the client unwraps.
//
//	c := vpapi.New(vpapi.Config{PSID: psid, AccessKey: key})
//	list, err := c.List(ctx, vpapi.ListParams{Page: 2, Limit: 20})
//
// In the browser build the client talks to the server's /api proxy, which
// adds the credentials, so PSID and AccessKey are left empty there.
package vpapi
