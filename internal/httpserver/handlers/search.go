package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/mic325hkg/CathayPriceChecker/internal/httpserver/deps"
	"github.com/mic325hkg/CathayPriceChecker/internal/httpserver/mw"
	"github.com/mic325hkg/CathayPriceChecker/internal/logger"
	"github.com/mic325hkg/CathayPriceChecker/internal/search"
)

// Search runs the direct hub<->destination search plus the synthesized
// via-hub searches and returns the ranked candidates with a coverage report.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := parseSearchRequest(r)
		if err != nil {
			writeError(w, d, http.StatusBadRequest, err.Error())
			return
		}

		mw.Annotate(r.Context(),
			logger.String("hub", req.Hub),
			logger.String("dest", req.Destination))
		d.Logger.Info("search request",
			logger.String("hub", req.Hub),
			logger.String("destination", req.Destination),
			logger.Strings("regions", req.Regions),
			logger.Strings("origins", req.Origins))

		res, err := d.Searcher.Run(r.Context(), req)
		switch {
		case err == nil:
			mw.Annotate(r.Context(),
				logger.String("run_id", res.RunID),
				logger.Int("candidates", len(res.Candidates)),
				logger.Bool("deadline_exceeded", res.Coverage.DeadlineExceeded))
			writeJSON(w, d, http.StatusOK, res)
		case errors.Is(err, search.ErrInvalidRequest):
			writeError(w, d, http.StatusBadRequest, err.Error())
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			d.Logger.Warn("search aborted", logger.Error(err))
			writeError(w, d, http.StatusGatewayTimeout, "search aborted before completion")
		default:
			d.Logger.Error("search failed", logger.Error(err))
			writeError(w, d, http.StatusInternalServerError, "search failed")
		}
	}
}

func parseSearchRequest(r *http.Request) (search.Request, error) {
	q := r.URL.Query()
	depart, ret, err := parseDates(q.Get("depart"), q.Get("return"))
	if err != nil {
		return search.Request{}, err
	}
	req := search.Request{
		Hub:         q.Get("hub"),
		Destination: q.Get("dest"),
		Depart:      depart,
		Return:      ret,
		Origins:     queryList(r, "origins"),
		Regions:     queryList(r, "regions"),
		Currency:    q.Get("currency"),
		Cabin:       q.Get("cabin"),
		FareType:    q.Get("fare_type"),
	}
	if req.StrictCarrier, err = queryBool(r, "strict"); err != nil {
		return req, err
	}
	if req.NonStopDirect, err = queryBool(r, "nonstop_direct"); err != nil {
		return req, err
	}
	if req.MaxResults, err = queryInt(r, "max", 0); err != nil {
		return req, err
	}
	if req.Adults, err = queryInt(r, "adults", 1); err != nil {
		return req, err
	}
	return req, nil
}
