// Package fmstream extracts a station name to stream URL mapping from an
// fmstream-style station listing.
//
// A listing has two halves that line up by position:
//   - an HTML page whose station nodes (by default "#tab > div") carry one
//     display name each, optionally prefixed by a flag token such as "US ";
//   - the page's data array, one record per station, each record a list of
//     stream candidates whose field 0 is a host/path and field 7 an integer
//     whose low three bits select the transport scheme.
//
// Only the first candidate of every record is used.
package fmstream
