// Package file provides the TOML configuration store.
// Values are kept flattened in memory ("ocr.dpi") and written back as
// TOML tables ([ocr] dpi = 300).
package file
