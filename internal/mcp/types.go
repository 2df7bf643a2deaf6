package mcp

// GetCaptionStatusInput is the input for the get_caption_status tool.
type GetCaptionStatusInput struct {
	IncludeRecord bool `json:"include_record,omitempty" jsonschema:"When true, include the obstacle rectangles of the last layout record"`
}

// Obstacle is one reserved rectangle in window coordinates.
type Obstacle struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// GetCaptionStatusOutput is the output for the get_caption_status tool.
type GetCaptionStatusOutput struct {
	Title         string     `json:"title"`
	Bound         bool       `json:"bound"`
	StripHeight   int        `json:"strip_height"`
	DrawableStart int        `json:"drawable_start"`
	DrawableEnd   int        `json:"drawable_end"`
	Degraded      bool       `json:"degraded"`
	Transparency  string     `json:"transparency,omitempty"`
	Obstacles     []Obstacle `json:"obstacles,omitempty"`
	UptimeSeconds int64      `json:"uptime_seconds"`
}

// SetCaptionTitleInput is the input for the set_caption_title tool.
type SetCaptionTitleInput struct {
	Title string `json:"title" jsonschema:"required,New single-line caption title"`
}

// SetCaptionTitleOutput is the output for the set_caption_title tool.
type SetCaptionTitleOutput struct {
	Title    string `json:"title"`
	Previous string `json:"previous"`
}

// ListDisplaysInput is the input for the list_displays tool.
type ListDisplaysInput struct{}

// DisplayInfo describes one display.
type DisplayInfo struct {
	Name   string  `json:"name"`
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	DPI    float64 `json:"dpi,omitempty"`
}

// ListDisplaysOutput is the output for the list_displays tool.
type ListDisplaysOutput struct {
	Displays []DisplayInfo `json:"displays"`
}

// ReloadConfigInput is the input for the reload_config tool.
type ReloadConfigInput struct{}
