// Package match implements the two approximate-matching steps of the
// dialogue: fuzzy correction of city names and nearest-topic lookup of
// policy questions. Both are pure functions of their input and the catalog.
package match
