// Package figures writes the validation figures as 300 DPI PNG files.
//
// Every function takes the output file path, creates its directory when
// needed and returns the absolute path of the written image. Loads are
// colored by regime: green functional, orange saturation, red decoupling.
package figures
