package http

import "github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/service"

type analyzeResponse struct {
	Status string `json:"status"`
	*service.Result
}
