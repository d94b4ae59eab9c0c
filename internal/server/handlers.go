package server

import (
	"encoding/json"
	"fmt"

	"depth-tools-mcp/internal/colormap"
	"depth-tools-mcp/internal/depth"
	"depth-tools-mcp/internal/depthio"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "depth_load", "depth_visualize").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads depth maps through the cache as needed
//  4. Calls the appropriate depth/colormap/depthio function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Depth Map Information
	case "depth_load":
		return s.handleDepthLoad(args)
	case "depth_info":
		return s.handleDepthInfo(args)
	case "depth_stats":
		return s.handleDepthStats(args)

	// In-Place Filters
	case "depth_filter_distance":
		return s.handleDepthFilterDistance(args)
	case "depth_filter_confidence":
		return s.handleDepthFilterConfidence(args)

	// Buffer Operations
	case "depth_copy":
		return s.handleDepthCopy(args)

	// Point Operations
	case "depth_sample":
		return s.handleDepthSample(args)
	case "depth_measure":
		return s.handleDepthMeasure(args)

	// Analysis
	case "depth_detect_edges":
		return s.handleDepthDetectEdges(args)

	// Visualization
	case "depth_visualize":
		return s.handleDepthVisualize(args)
	case "confidence_visualize":
		return s.handleConfidenceVisualize(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// sourceArgs are the shared depth-map addressing arguments.
type sourceArgs struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// load fetches the addressed depth map through the cache.
func (s *Server) load(a sourceArgs) (*depth.PixelBuffer, error) {
	return depthio.LoadDepthMap(s.cache, a.Path, a.Format, a.Width, a.Height)
}

// === Basic Depth Map Information Handlers ===

func (s *Server) handleDepthLoad(args json.RawMessage) (interface{}, error) {
	var a sourceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return depthio.LoadDepthMapInfo(s.cache, a.Path, a.Format, a.Width, a.Height)
}

// depthInfoResult is the lightweight depth_info payload.
type depthInfoResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	PixelFormat string `json:"pixel_format"`
	BytesPerRow int    `json:"bytes_per_row"`
	ByteSize    int    `json:"byte_size"`
}

func (s *Server) handleDepthInfo(args json.RawMessage) (interface{}, error) {
	var a sourceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	buf, err := s.load(a)
	if err != nil {
		return nil, err
	}
	return &depthInfoResult{
		Width:       buf.Width(),
		Height:      buf.Height(),
		PixelFormat: buf.Format().String(),
		BytesPerRow: buf.BytesPerRow(),
		ByteSize:    buf.ByteSize(),
	}, nil
}

func (s *Server) handleDepthStats(args json.RawMessage) (interface{}, error) {
	var a sourceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	buf, err := s.load(a)
	if err != nil {
		return nil, err
	}
	return depth.Statistics(buf)
}

// === In-Place Filter Handlers ===

type filterDistanceArgs struct {
	sourceArgs
	MaxDistance float64 `json:"max_distance"`
}

func (s *Server) handleDepthFilterDistance(args json.RawMessage) (interface{}, error) {
	var a filterDistanceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	buf, err := s.load(a.sourceArgs)
	if err != nil {
		return nil, err
	}
	depth.FilterByDistance(buf, float32(a.MaxDistance))
	return depth.Statistics(buf)
}

type filterConfidenceArgs struct {
	sourceArgs
	ConfidencePath string `json:"confidence_path"`
	Threshold      *int   `json:"threshold"`
}

func (s *Server) handleDepthFilterConfidence(args json.RawMessage) (interface{}, error) {
	var a filterConfidenceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	threshold := int(depth.ConfidenceMedium)
	if a.Threshold != nil {
		threshold = *a.Threshold
	}
	if threshold < 0 || threshold > int(depth.ConfidenceHigh) {
		return nil, fmt.Errorf("threshold %d outside confidence range 0-2", threshold)
	}

	depthBuf, err := s.load(a.sourceArgs)
	if err != nil {
		return nil, err
	}
	confBuf, err := depthio.LoadConfidenceMap(s.cache, a.ConfidencePath, depthBuf.Width(), depthBuf.Height())
	if err != nil {
		return nil, err
	}
	if err := depth.FilterByConfidence(depthBuf, confBuf, depth.ConfidenceLevel(threshold)); err != nil {
		return nil, err
	}
	return depth.Statistics(depthBuf)
}

// === Buffer Operation Handlers ===

type depthCopyArgs struct {
	sourceArgs
	CopyKey string `json:"copy_key"`
}

// depthCopyResult describes the clone registered in the cache.
type depthCopyResult struct {
	CopyKey     string `json:"copy_key"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	PixelFormat string `json:"pixel_format"`
	ByteSize    int    `json:"byte_size"`
}

func (s *Server) handleDepthCopy(args json.RawMessage) (interface{}, error) {
	var a depthCopyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.CopyKey == "" {
		return nil, fmt.Errorf("copy_key must not be empty")
	}
	buf, err := s.load(a.sourceArgs)
	if err != nil {
		return nil, err
	}
	clone, err := buf.Clone()
	if err != nil {
		return nil, err
	}
	s.cache.Store(a.CopyKey, clone)
	return &depthCopyResult{
		CopyKey:     a.CopyKey,
		Width:       clone.Width(),
		Height:      clone.Height(),
		PixelFormat: clone.Format().String(),
		ByteSize:    clone.ByteSize(),
	}, nil
}

// === Point Operation Handlers ===

type depthSampleArgs struct {
	sourceArgs
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handleDepthSample(args json.RawMessage) (interface{}, error) {
	var a depthSampleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	buf, err := s.load(a.sourceArgs)
	if err != nil {
		return nil, err
	}
	return depth.SampleAt(buf, a.X, a.Y)
}

type depthMeasureArgs struct {
	sourceArgs
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func (s *Server) handleDepthMeasure(args json.RawMessage) (interface{}, error) {
	var a depthMeasureArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	buf, err := s.load(a.sourceArgs)
	if err != nil {
		return nil, err
	}
	return depth.MeasurePoints(buf, a.X1, a.Y1, a.X2, a.Y2)
}

// === Analysis Handlers ===

type detectEdgesArgs struct {
	sourceArgs
	MinJump float64 `json:"min_jump"`
}

// edgeMaskResult combines edge statistics with the encoded mask.
type edgeMaskResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	EdgeCount   int    `json:"edge_count"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

func (s *Server) handleDepthDetectEdges(args json.RawMessage) (interface{}, error) {
	var a detectEdgesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.MinJump == 0 {
		a.MinJump = 0.05
	}
	buf, err := s.load(a.sourceArgs)
	if err != nil {
		return nil, err
	}
	edges, err := depth.DetectEdges(buf, a.MinJump)
	if err != nil {
		return nil, err
	}
	encoded, err := depthio.ExportImage(edges.Mask, depthio.ExportOptions{})
	if err != nil {
		return nil, err
	}
	return &edgeMaskResult{
		Width:       edges.Width,
		Height:      edges.Height,
		EdgeCount:   edges.EdgeCount,
		ImageBase64: encoded.ImageBase64,
		MimeType:    encoded.MimeType,
	}, nil
}

// === Visualization Handlers ===

type depthVisualizeArgs struct {
	sourceArgs
	MinDepth     float64  `json:"min_depth"`
	MaxDepth     float64  `json:"max_depth"`
	Opacity      *float64 `json:"opacity"`
	Palette      string   `json:"palette"`
	OutputFormat string   `json:"output_format"`
	Scale        float64  `json:"scale"`
	SmoothSigma  float64  `json:"smooth_sigma"`
}

func (s *Server) handleDepthVisualize(args json.RawMessage) (interface{}, error) {
	var a depthVisualizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opacity := 1.0
	if a.Opacity != nil {
		opacity = *a.Opacity
	}
	if opacity < 0 || opacity > 1 {
		return nil, fmt.Errorf("opacity %v outside [0, 1]", opacity)
	}

	buf, err := s.load(a.sourceArgs)
	if err != nil {
		return nil, err
	}

	// Auto-range from the map when no usable bounds were supplied.
	if a.MaxDepth <= a.MinDepth {
		stats, err := depth.Statistics(buf)
		if err != nil {
			return nil, err
		}
		if stats.ValidSamples == 0 {
			return nil, fmt.Errorf("cannot auto-range: no valid depth samples")
		}
		a.MinDepth = stats.MinMeters
		a.MaxDepth = stats.MaxMeters
		if a.MaxDepth <= a.MinDepth {
			// Flat map: widen the range so normalization stays defined.
			a.MaxDepth = a.MinDepth + 1
		}
	}

	palette, err := colormap.ByName(a.Palette)
	if err != nil {
		return nil, err
	}
	rendered, err := colormap.DepthToRGBAWithPalette(buf, a.MinDepth, a.MaxDepth, opacity, palette)
	if err != nil {
		return nil, err
	}
	return depthio.ExportBuffer(rendered, depthio.ExportOptions{
		Format:      a.OutputFormat,
		Scale:       a.Scale,
		SmoothSigma: a.SmoothSigma,
	})
}

type confidenceVisualizeArgs struct {
	Path         string   `json:"path"`
	Width        int      `json:"width"`
	Height       int      `json:"height"`
	Opacity      *float64 `json:"opacity"`
	OutputFormat string   `json:"output_format"`
	Scale        float64  `json:"scale"`
}

func (s *Server) handleConfidenceVisualize(args json.RawMessage) (interface{}, error) {
	var a confidenceVisualizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opacity := 1.0
	if a.Opacity != nil {
		opacity = *a.Opacity
	}
	if opacity < 0 || opacity > 1 {
		return nil, fmt.Errorf("opacity %v outside [0, 1]", opacity)
	}

	confBuf, err := depthio.LoadConfidenceMap(s.cache, a.Path, a.Width, a.Height)
	if err != nil {
		return nil, err
	}
	rendered, err := colormap.ConfidenceToRGBA(confBuf, opacity)
	if err != nil {
		return nil, err
	}
	return depthio.ExportBuffer(rendered, depthio.ExportOptions{
		Format: a.OutputFormat,
		Scale:  a.Scale,
	})
}
