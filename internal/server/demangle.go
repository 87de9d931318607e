package server

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/skdltmxn/cxxdemangle/demangle"
)

// MaxBatch is the largest number of symbols accepted by one request.
const MaxBatch = 1000

type demangleRequest struct {
	Symbols      []string `json:"symbols" binding:"required,min=1,max=1000,dive,required"`
	NoParams     bool     `json:"no_params"`
	NoReturnType bool     `json:"no_return_type"`
}

type demangleResult struct {
	Mangled   string `json:"mangled"`
	Demangled string `json:"demangled"`
	Error     string `json:"error,omitempty"`
	Category  string `json:"category,omitempty"`
}

type demangleResponse struct {
	Results []demangleResult `json:"results"`
}

func demangleCategory(err error) string {
	if err == nil {
		return ""
	}
	return demangle.Classify(err).String()
}

func (s *Server) demangleBatch(ctx *gin.Context) {
	var req demangleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, NewErrorResponse(err))
		return
	}

	opts := slices.Clone(s.opts)
	if req.NoParams {
		opts = append(opts, demangle.WithNoParams())
	}
	if req.NoReturnType {
		opts = append(opts, demangle.WithNoReturnType())
	}

	results := make([]demangleResult, len(req.Symbols))

	var group errgroup.Group
	group.SetLimit(s.config.Jobs)
	for i, symbol := range req.Symbols {
		group.Go(func() error {
			results[i] = s.demangleSymbol(symbol, opts)
			return nil
		})
	}
	// per-symbol failures are reported in the results
	_ = group.Wait()

	ctx.JSON(http.StatusOK, demangleResponse{Results: results})
}

func (s *Server) demangleOne(ctx *gin.Context) {
	symbol := ctx.Param("symbol")

	demangled, err := demangle.Demangle(symbol, s.opts...)
	switch demangle.Classify(err) {
	case demangle.CategoryNone:
		ctx.JSON(http.StatusOK, demangleResult{Mangled: symbol, Demangled: demangled})
	case demangle.CategoryNotMangled:
		ctx.JSON(http.StatusOK, demangleResult{
			Mangled:   symbol,
			Demangled: symbol,
			Category:  demangleCategory(err),
		})
	default:
		ctx.JSON(http.StatusUnprocessableEntity, newDemangleErrorResponse(err))
	}
}

func (s *Server) demangleSymbol(symbol string, opts []demangle.Option) demangleResult {
	demangled, err := demangle.Demangle(symbol, opts...)
	if err != nil {
		s.logger.Debug().Err(err).Str("symbol", symbol).Msg("demangle failed")
		return demangleResult{
			Mangled:   symbol,
			Demangled: symbol,
			Error:     err.Error(),
			Category:  demangleCategory(err),
		}
	}
	return demangleResult{Mangled: symbol, Demangled: demangled}
}
