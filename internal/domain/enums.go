package domain

// FileType represents the document kinds accepted for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeCSV FileType = "csv"
)

// AllowedContentTypes maps detected MIME types to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"text/csv":        FileTypeCSV,
	"text/plain":      FileTypeCSV,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf": FileTypePDF,
	"csv": FileTypeCSV,
}

// AnalysisType selects one of the local CSV analyses that do not call the LLM.
type AnalysisType string

const (
	AnalysisSummary     AnalysisType = "summary"
	AnalysisStatistics  AnalysisType = "statistics"
	AnalysisCorrelation AnalysisType = "correlation"
)
