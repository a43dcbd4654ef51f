package api

import (
	"github.com/samcharles93/nxpack/internal/catalog"
	"github.com/samcharles93/nxpack/internal/render"
)

type ResponseError struct {
	Message   string `json:"message,omitempty"`
	Type      string `json:"type,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type ContainerList struct {
	Object string          `json:"object"`
	Data   []catalog.Entry `json:"data"`
}

type TableInfo struct {
	Count  uint32 `json:"count"`
	Offset uint64 `json:"offset"`
}

type ContainerInfo struct {
	Object  string    `json:"object"`
	Name    string    `json:"name"`
	Magic   string    `json:"magic"`
	Nodes   TableInfo `json:"nodes"`
	Strings TableInfo `json:"strings"`
	Bitmaps TableInfo `json:"bitmaps"`
	Audio   TableInfo `json:"audio"`
}

type NodeResponse struct {
	Object    string `json:"object"`
	Container string `json:"container"`
	render.NodeView
	As      string `json:"as,omitempty"`
	Coerced any    `json:"coerced,omitempty"`
}
