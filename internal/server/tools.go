package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// sourceProperties are the arguments shared by every tool that addresses a
// depth map on disk. Raw formats carry no header, so width and height are
// required for them; PNG sources ignore both.
func sourceProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the depth map file",
		},
		"format": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"float32", "z16", "png16"},
			"description": "Source format. Omit to detect from the file extension (.png -> png16, .z16 -> z16, else float32).",
		},
		"width": map[string]interface{}{
			"type":        "integer",
			"description": "Map width in pixels (required for raw float32/z16 sources)",
		},
		"height": map[string]interface{}{
			"type":        "integer",
			"description": "Map height in pixels (required for raw float32/z16 sources)",
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Depth Map Information
		{
			Name:        "depth_load",
			Description: "Load a depth map file and return its dimensions, format, and valid-sample counts. The map stays cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": sourceProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "depth_info",
			Description: "Get the dimensions and stride of a depth map without a statistics pass.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": sourceProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "depth_stats",
			Description: "Compute min, max, and mean depth in meters over the valid samples of a depth map. All-invalid maps report zeros.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": sourceProperties(),
				"required":   []string{"path"},
			},
		},

		// In-Place Filters
		{
			Name:        "depth_filter_distance",
			Description: "Zero out depth samples beyond a maximum distance (plus NaN and negative samples), in place on the cached map. Returns post-filter statistics.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(sourceProperties(), map[string]interface{}{
					"max_distance": map[string]interface{}{
						"type":        "number",
						"description": "Maximum valid distance in meters; samples beyond it become 0",
					},
				}),
				"required": []string{"path", "max_distance"},
			},
		},
		{
			Name:        "depth_filter_confidence",
			Description: "Zero out depth samples whose paired confidence ordinal is below a threshold, in place on the cached map. The confidence map must match the depth map's dimensions.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(sourceProperties(), map[string]interface{}{
					"confidence_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the confidence map (raw uint8 ordinals or 8-bit grayscale PNG)",
					},
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Minimum confidence ordinal to keep: 0=low, 1=medium, 2=high. Default 1.",
						"default":     1,
					},
				}),
				"required": []string{"path", "confidence_path"},
			},
		},

		// Buffer Operations
		{
			Name:        "depth_copy",
			Description: "Clone the cached depth map into an independent buffer stored under a new cache key, so filters on the original leave the copy untouched.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(sourceProperties(), map[string]interface{}{
					"copy_key": map[string]interface{}{
						"type":        "string",
						"description": "Cache key for the copy; other tools can address it as their path",
					},
				}),
				"required": []string{"path", "copy_key"},
			},
		},

		// Point Operations
		{
			Name:        "depth_sample",
			Description: "Read the depth in meters at a single pixel coordinate.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(sourceProperties(), map[string]interface{}{
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				}),
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "depth_measure",
			Description: "Measure the pixel distance between two points and the depth difference between their samples.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(sourceProperties(), map[string]interface{}{
					"x1": map[string]interface{}{"type": "integer", "description": "First point X"},
					"y1": map[string]interface{}{"type": "integer", "description": "First point Y"},
					"x2": map[string]interface{}{"type": "integer", "description": "Second point X"},
					"y2": map[string]interface{}{"type": "integer", "description": "Second point Y"},
				}),
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},

		// Analysis
		{
			Name:        "depth_detect_edges",
			Description: "Find depth discontinuities (object boundaries) larger than a minimum jump in meters. Returns an edge mask as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(sourceProperties(), map[string]interface{}{
					"min_jump": map[string]interface{}{
						"type":        "number",
						"description": "Minimum depth discontinuity in meters to mark as an edge. Default 0.05.",
						"default":     0.05,
					},
				}),
				"required": []string{"path"},
			},
		},

		// Visualization
		{
			Name:        "depth_visualize",
			Description: "Render a depth map as a colormapped image (jet palette by default). Invalid samples are fully transparent. Returns base64 PNG or WebP.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(sourceProperties(), map[string]interface{}{
					"min_depth": map[string]interface{}{
						"type":        "number",
						"description": "Depth mapped to the palette start, in meters. Omit both bounds to auto-range from the map's statistics.",
					},
					"max_depth": map[string]interface{}{
						"type":        "number",
						"description": "Depth mapped to the palette end, in meters",
					},
					"opacity": map[string]interface{}{
						"type":        "number",
						"description": "Alpha for valid samples, 0-1. Default 1.0.",
						"default":     1.0,
					},
					"palette": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"jet", "gray"},
						"description": "Color palette. Default jet.",
					},
					"output_format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"png", "webp"},
						"description": "Encoded output format. Default png.",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Resize factor for the output image. Default 1.0.",
						"default":     1.0,
					},
					"smooth_sigma": map[string]interface{}{
						"type":        "number",
						"description": "Gaussian blur radius applied to the output. Default 0 (off).",
						"default":     0,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "confidence_visualize",
			Description: "Render a confidence map as a traffic-light image: red=low, yellow=medium, green=high, gray=out of range. Returns base64 PNG or WebP.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the confidence map (raw uint8 ordinals or 8-bit grayscale PNG)",
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Map width in pixels (required for raw sources)",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Map height in pixels (required for raw sources)",
					},
					"opacity": map[string]interface{}{
						"type":        "number",
						"description": "Constant alpha, 0-1. Default 1.0.",
						"default":     1.0,
					},
					"output_format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"png", "webp"},
						"description": "Encoded output format. Default png.",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Resize factor for the output image. Default 1.0.",
						"default":     1.0,
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// mergeProperties combines the shared source properties with tool-specific
// ones. Later maps win on key collisions.
func mergeProperties(maps ...map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{})
	for _, m := range maps {
		for k, v := range m {
			merged[k] = v
		}
	}
	return merged
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
