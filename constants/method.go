package constants

// RecoveryMethod records how document text was obtained.
type RecoveryMethod string

// Stable values, safe to surface to callers and logs.
const (
	MethodPDFText   RecoveryMethod = "pdf-text"   // every page had a text layer
	MethodPDFOCR    RecoveryMethod = "pdf-ocr"    // every page was rasterized and recognized
	MethodPDFMixed  RecoveryMethod = "pdf-mixed"  // some pages text, some OCR
	MethodImageOCR  RecoveryMethod = "image-ocr"
	MethodPlainText RecoveryMethod = "plain-text" // caller supplied text directly
	MethodFailed    RecoveryMethod = "failed"
)

// RecordStatus tells whether a structured record was parsed or synthesized.
type RecordStatus string

const (
	RecordParsed   RecordStatus = "PARSED"
	RecordDegraded RecordStatus = "DEGRADED"
)
