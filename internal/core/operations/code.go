package operations

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/xml"
	"errors"
	"net"
	"net/http"

	"github.com/davstat/internal/core/files"
	"github.com/davstat/internal/core/webdav"
)

// Code classifies an Outcome beyond success/failure.
type Code int

const (
	CodeUnknown Code = iota
	CodeOK
	CodeUnauthorized
	CodeForbidden
	CodeFileNotFound
	CodeConflict
	CodePreconditionFailed
	CodeLocked
	CodeServiceUnavailable
	CodeQuotaExceeded
	CodeUnhandledHTTPCode
	CodeTimeout
	CodeHostNotAvailable
	CodeNoNetworkConnection
	CodeSSLError
	CodeIncorrectAddress
	CodeInvalidResponse
	CodeEmptyResponse
)

var codeNames = map[Code]string{
	CodeUnknown:             "unknown error",
	CodeOK:                  "ok",
	CodeUnauthorized:        "unauthorized",
	CodeForbidden:           "forbidden",
	CodeFileNotFound:        "file not found",
	CodeConflict:            "conflict",
	CodePreconditionFailed:  "precondition failed",
	CodeLocked:              "locked",
	CodeServiceUnavailable:  "service unavailable",
	CodeQuotaExceeded:       "quota exceeded",
	CodeUnhandledHTTPCode:   "unhandled http status",
	CodeTimeout:             "timeout",
	CodeHostNotAvailable:    "host not available",
	CodeNoNetworkConnection: "no network connection",
	CodeSSLError:            "ssl error",
	CodeIncorrectAddress:    "incorrect address",
	CodeInvalidResponse:     "invalid response",
	CodeEmptyResponse:       "empty response",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return codeNames[CodeUnknown]
}

func codeForStatus(status int) Code {
	switch {
	case IsSuccessStatus(status):
		return CodeOK
	case status == http.StatusUnauthorized:
		return CodeUnauthorized
	case status == http.StatusForbidden:
		return CodeForbidden
	case status == http.StatusNotFound:
		return CodeFileNotFound
	case status == http.StatusConflict:
		return CodeConflict
	case status == http.StatusPreconditionFailed:
		return CodePreconditionFailed
	case status == webdav.StatusLocked:
		return CodeLocked
	case status == http.StatusServiceUnavailable:
		return CodeServiceUnavailable
	case status == webdav.StatusInsufficientStorage:
		return CodeQuotaExceeded
	default:
		return CodeUnhandledHTTPCode
	}
}

func codeForError(err error) Code {
	if err == nil {
		return CodeUnknown
	}

	switch {
	case errors.Is(err, ErrEmptyMultistatus):
		return CodeEmptyResponse
	case errors.Is(err, webdav.ErrInvalidMultistatus), errors.Is(err, files.ErrMalformedEntry):
		return CodeInvalidResponse
	case errors.Is(err, webdav.ErrInvalidURL):
		return CodeIncorrectAddress
	case errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout
	}

	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return CodeInvalidResponse
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CodeTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CodeHostNotAvailable
	}

	var certErr *tls.CertificateVerificationError
	var recordErr tls.RecordHeaderError
	var authorityErr x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	if errors.As(err, &certErr) || errors.As(err, &recordErr) ||
		errors.As(err, &authorityErr) || errors.As(err, &hostnameErr) {
		return CodeSSLError
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return CodeNoNetworkConnection
	}

	return CodeUnknown
}
