// Package hclconfig loads graph descriptions written in HCL.
//
// A file may declare `ninja_required_version`, `variable`, `rule`, `build`
// and `manifest` blocks. Loading happens in two passes: the first decodes
// the block structure of every file, the second evaluates expressions with
// `var.<name>` bound to the variables declared so far and with the tracked
// file functions, so every file an expression reads becomes a generator
// dependency.
package hclconfig
