package http

import (
	"net/http"

	"github.com/AlibekovAA/bearer-auth/internal/common/constants"
	"github.com/AlibekovAA/bearer-auth/internal/common/httpmetrics"
	"github.com/AlibekovAA/bearer-auth/internal/common/logger"
)

func BuildBaseHandler(log *logger.Logger, corsOrigins []string, handler http.Handler) http.Handler {
	collector := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	traceID := TraceIDMiddleware
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)
	cors := CORSMiddleware(corsOrigins)
	securityHeaders := SecurityHeadersMiddleware
	csp := ContentSecurityPolicyMiddleware("")

	return securityHeaders(csp(recovery(traceID(maxRequestSize(cors(collector.Wrap(handler)))))))
}
