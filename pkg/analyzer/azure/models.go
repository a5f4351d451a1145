package azure

type OperationStatus string

const (
	OperationStatusSucceeded  OperationStatus = "succeeded"
	OperationStatusRunning    OperationStatus = "running"
	OperationStatusNotStarted OperationStatus = "notStarted"
)

type AnalyzeRequest struct {
	URLSource string `json:"urlSource,omitempty"`
}

type AnalyzeOperation struct {
	Status OperationStatus `json:"status"`

	Result AnalyzeResult `json:"analyzeResult"`
}

type AnalyzeResult struct {
	ModelID string `json:"modelId"`

	Content string `json:"content"`

	Pages  []Page  `json:"pages"`
	Tables []Table `json:"tables"`
	Styles []Style `json:"styles"`
}

type Page struct {
	PageNumber int `json:"pageNumber"`

	Unit   string  `json:"unit"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Lines []Line `json:"lines"`
}

type Line struct {
	Content string `json:"content"`

	Spans   []Span    `json:"spans"`
	Polygon []float64 `json:"polygon"`
}

type Table struct {
	RowCount    int `json:"rowCount"`
	ColumnCount int `json:"columnCount"`

	Cells []Cell `json:"cells"`

	BoundingRegions []BoundingRegion `json:"boundingRegions"`
}

type Cell struct {
	Kind string `json:"kind,omitempty"`

	RowIndex    int `json:"rowIndex"`
	ColumnIndex int `json:"columnIndex"`

	Content string `json:"content"`

	Spans           []Span           `json:"spans"`
	BoundingRegions []BoundingRegion `json:"boundingRegions"`
}

type Style struct {
	IsHandwritten bool   `json:"isHandwritten,omitempty"`
	Color         string `json:"color,omitempty"`

	Confidence float64 `json:"confidence"`

	Spans []Span `json:"spans"`
}

type Span struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

type BoundingRegion struct {
	PageNumber int       `json:"pageNumber"`
	Polygon    []float64 `json:"polygon"`
}
