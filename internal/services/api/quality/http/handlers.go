// Package http provides http transport for quality
package http

import (
	stdhttp "net/http"
	"strconv"

	"starforge/internal/modkit/httpkit"
	perr "starforge/internal/platform/errors"
	"starforge/internal/services/api/quality/domain"
	svc "starforge/internal/services/api/quality/service"
)

// Register mounts quality endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// latest run and validity picture
	httpkit.Get(r, "/summary", h.summary)

	// invalid staged rows, filtered by reason
	httpkit.PostJSON[domain.IssuesInput](r, "/issues", h.issues)

	httpkit.Get(r, "/runs", h.runs)
	httpkit.Get(r, "/rejections", h.rejections)
}

type handlers struct{ svc svc.Service }

// summary handles GET /quality/summary
// @Summary Latest run, issues by reason, success rate and delta
// @Tags Quality
// @Produce json
// @Success 200 {object} domain.Summary "ok"
// @Router /quality/summary [get]
func (h *handlers) summary(r *stdhttp.Request) (any, error) {
	return h.svc.Summary(r.Context())
}

// issues handles POST /quality/issues
// @Summary Invalid staged rows
// @Tags Quality
// @Accept json
// @Produce json
// @Param payload body domain.IssuesInput true "Query"
// @Success 200 {array} domain.InvalidRow "ok"
// @Router /quality/issues [post]
func (h *handlers) issues(r *stdhttp.Request, in domain.IssuesInput) (any, error) {
	return h.svc.Issues(r.Context(), in)
}

// runs handles GET /quality/runs
// @Summary Recent refresh runs, newest first
// @Tags Quality
// @Produce json
// @Param limit query int false "max rows"
// @Success 200 {array} domain.Run "ok"
// @Router /quality/runs [get]
func (h *handlers) runs(r *stdhttp.Request) (any, error) {
	in, err := listInput(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Runs(r.Context(), in)
}

// rejections handles GET /quality/rejections
// @Summary Valid rows left out of fact_sales
// @Tags Quality
// @Produce json
// @Param limit query int false "max rows"
// @Success 200 {array} domain.Rejection "ok"
// @Router /quality/rejections [get]
func (h *handlers) rejections(r *stdhttp.Request) (any, error) {
	in, err := listInput(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Rejections(r.Context(), in)
}

func listInput(r *stdhttp.Request) (domain.ListInput, error) {
	var in domain.ListInput
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return in, perr.Newf(perr.ErrorCodeValidation, "limit must be a number")
		}
		in.Limit = n
	}
	return in, httpkit.Validate(in)
}
