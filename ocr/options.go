package ocr

import "strconv"

// Metadata keys understood by the Tesseract engine. Other engines are free to
// ignore them.
const (
	MetaPageSegMode = "tessedit_pageseg_mode"
	MetaWhitelist   = "tessedit_char_whitelist"
)

// WithTesseractPSM sets the page segmentation mode (PSM) for Tesseract.
// See https://tesseract-ocr.github.io/tessdoc/ImproveQuality.html#page-segmentation-method for values.
func WithTesseractPSM(mode int) InputOption {
	return func(in *Input) {
		if in.Metadata == nil {
			in.Metadata = make(map[string]string)
		}
		in.Metadata[MetaPageSegMode] = strconv.Itoa(mode)
	}
}

// WithTesseractWhitelist restricts recognition to the provided characters.
func WithTesseractWhitelist(chars string) InputOption {
	return func(in *Input) {
		if in.Metadata == nil {
			in.Metadata = make(map[string]string)
		}
		in.Metadata[MetaWhitelist] = chars
	}
}
