// Package osuapi is the client for the osu! API v2.
//
// It covers the three remote surfaces the tracker needs:
//
//   - [TokenSource]: a cached OAuth2 client-credentials bearer token with
//     single-flight refresh and a 60 second expiry safety margin.
//   - [Client.Beatmapset]: detail fetch for one beatmapset, normalized into
//     the internal status vocabulary and difficulty model.
//   - [Client.Search] / [Client.CoverBytes]: the cursor-paginated search
//     endpoint and the static cover asset host.
//
// All calls carry short fixed timeouts and report failures through the
// sentinel errors in internal/shared, so callers can treat any single fetch
// failure as local and transient.
package osuapi
