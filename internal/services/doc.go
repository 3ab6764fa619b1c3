// Package services implements clients for the two external systems topspin consumes.
//
// [RecordSource] is the album page database (Notion): a paginated query over every
// page in the configured database plus single-page property and media updates.
// [ArtworkSource] is the music-metadata search API (Spotify) used to find cover and
// icon imagery by album and artist name.
//
// Both interfaces are consumed by the tasks engine, which never depends on the
// concrete clients; tests substitute in-memory fakes. The concrete clients keep
// their base URLs and HTTP clients injectable so package tests can run against
// [net/http/httptest] servers.
package services
