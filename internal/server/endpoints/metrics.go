package endpoints

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/labrelay/internal/api"
	"github.com/jackzampolin/labrelay/internal/metrics"
	"github.com/jackzampolin/labrelay/internal/svcctx"
)

const defaultRecentLimit = 20

// MetricsResponse summarizes recent uploads.
type MetricsResponse struct {
	Summary *metrics.Summary `json:"summary"`
	Recent  []metrics.Metric `json:"recent"`
}

// MetricsEndpoint handles GET /metrics.
type MetricsEndpoint struct{}

var _ api.Endpoint = (*MetricsEndpoint)(nil)

func (e *MetricsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/metrics", e.handler
}

func (e *MetricsEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Upload metrics
//	@Description	Outcome counts and vendor latency for uploads since the server started
//	@Tags			health
//	@Produce		json
//	@Param			limit	query		int	false	"Number of recent uploads to include"	default(20)
//	@Success		200		{object}	MetricsResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/metrics [get]
func (e *MetricsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	rec := svcctx.MetricsFrom(r.Context())
	resp := MetricsResponse{Summary: rec.Summary(), Recent: []metrics.Metric{}}
	if limit > 0 {
		resp.Recent = rec.List(limit)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (e *MetricsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show upload outcome counts and vendor latency",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())

			var resp map[string]any
			path := fmt.Sprintf("/metrics?limit=%d", limit)
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", defaultRecentLimit, "Number of recent uploads to include")
	return cmd
}
