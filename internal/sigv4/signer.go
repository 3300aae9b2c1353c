// Package sigv4 implements AWS Signature Version 4 request signing for
// the s3 service as a pure function of its inputs. It has no knowledge
// of HTTP clients or connections; callers attach the returned header set
// to whatever request they are about to send.
package sigv4

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/candrsn/sqlite-s3-query/internal/errs"
)

const (
	algorithm  = "AWS4-HMAC-SHA256"
	dateFormat = "20060102T150405Z"
	dayFormat  = "20060102"
	service    = "s3"
)

// QueryParam is one key/value pair of the request's query string.
type QueryParam struct {
	Key   string
	Value string
}

// Header is one pre-existing key/value pair to carry through signing.
// Keys are matched case-insensitively; values have internal whitespace
// runs collapsed to a single space before signing, matching the
// canonicalization AWS requires.
type Header struct {
	Key   string
	Value string
}

// SignInput holds everything the signer needs. Query, Headers and
// SessionToken may be empty; Now is the caller-supplied clock so the
// signer stays pure and testable against canned vectors.
type SignInput struct {
	Method          string
	Path            string
	Query           []QueryParam
	Headers         []Header
	BodyHash        string
	Host            string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Now             time.Time
}

// Sign computes the SigV4 header set for the given request description.
// It returns SigningError for precondition violations: an empty host, an
// empty method, a non-ASCII header name, or a missing body hash.
func Sign(in SignInput) (http.Header, error) {
	if in.Host == "" {
		return nil, errs.SigningError("host must not be empty")
	}
	if in.BodyHash == "" {
		return nil, errs.SigningError("body hash must not be empty")
	}
	if in.Method == "" {
		return nil, errs.SigningError("method must not be empty")
	}

	now := in.Now.UTC()
	amzdate := now.Format(dateFormat)
	datestamp := now.Format(dayFormat)
	credentialScope := datestamp + "/" + in.Region + "/" + service + "/aws4_request"

	normalized, err := normalizeHeaders(in.Headers)
	if err != nil {
		return nil, err
	}
	normalized = append(normalized, Header{Key: "host", Value: in.Host})
	normalized = append(normalized, Header{Key: "x-amz-content-sha256", Value: in.BodyHash})
	normalized = append(normalized, Header{Key: "x-amz-date", Value: amzdate})
	if in.SessionToken != "" {
		normalized = append(normalized, Header{Key: "x-amz-security-token", Value: in.SessionToken})
	}

	sort.Slice(normalized, func(i, j int) bool { return normalized[i].Key < normalized[j].Key })

	signedHeaders := signedHeaderNames(normalized)
	canonicalRequest := buildCanonicalRequest(in.Method, in.Path, in.Query, normalized, signedHeaders, in.BodyHash)

	stringToSign := strings.Join([]string{
		algorithm,
		amzdate,
		credentialScope,
		hexSHA256([]byte(canonicalRequest)),
	}, "\n")

	signingKey := deriveSigningKey(in.SecretAccessKey, datestamp, in.Region)
	signature := hex.EncodeToString(hmacSHA256(signingKey, []byte(stringToSign)))

	authorization := algorithm + " Credential=" + in.AccessKeyID + "/" + credentialScope +
		", SignedHeaders=" + signedHeaders + ", Signature=" + signature

	out := make(http.Header, len(normalized)+1)
	for _, h := range normalized {
		out.Add(h.Key, h.Value)
	}
	out.Set("authorization", authorization)
	return out, nil
}

// normalizeHeaders lowercases keys and collapses internal whitespace runs
// in values to a single space, per AWS's canonical header normalization.
func normalizeHeaders(hdrs []Header) ([]Header, error) {
	out := make([]Header, 0, len(hdrs))
	for _, h := range hdrs {
		for i := 0; i < len(h.Key); i++ {
			if h.Key[i] > 127 {
				return nil, errs.SigningError("header name must be ASCII: " + h.Key)
			}
		}
		out = append(out, Header{
			Key:   strings.ToLower(h.Key),
			Value: strings.Join(strings.Fields(h.Value), " "),
		})
	}
	return out, nil
}

func signedHeaderNames(sorted []Header) string {
	names := make([]string, len(sorted))
	for i, h := range sorted {
		names[i] = h.Key
	}
	return strings.Join(names, ";")
}

func buildCanonicalRequest(method, path string, query []QueryParam, sortedHeaders []Header, signedHeaders, bodyHash string) string {
	canonicalURI := percentEncode(path, "/")

	quoted := make([]QueryParam, len(query))
	for i, q := range query {
		quoted[i] = QueryParam{Key: percentEncode(q.Key, ""), Value: percentEncode(q.Value, "")}
	}
	sort.Slice(quoted, func(i, j int) bool {
		if quoted[i].Key != quoted[j].Key {
			return quoted[i].Key < quoted[j].Key
		}
		return quoted[i].Value < quoted[j].Value
	})
	pairs := make([]string, len(quoted))
	for i, q := range quoted {
		pairs[i] = q.Key + "=" + q.Value
	}
	canonicalQuery := strings.Join(pairs, "&")

	var canonicalHeaders strings.Builder
	for _, h := range sortedHeaders {
		canonicalHeaders.WriteString(h.Key)
		canonicalHeaders.WriteByte(':')
		canonicalHeaders.WriteString(h.Value)
		canonicalHeaders.WriteByte('\n')
	}

	return strings.Join([]string{
		method,
		canonicalURI,
		canonicalQuery,
		canonicalHeaders.String(),
		signedHeaders,
		bodyHash,
	}, "\n")
}

// percentEncode percent-encodes s, leaving RFC 3986 unreserved characters
// and the bytes in extraSafe untouched. '~' is always left unescaped,
// matching Python's urllib.parse.quote default.
func percentEncode(s string, extraSafe string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) || strings.IndexByte(extraSafe, c) >= 0 {
			b.WriteByte(c)
		} else {
			b.WriteByte('%')
			b.WriteByte(hexDigit(c >> 4))
			b.WriteByte(hexDigit(c & 0x0f))
		}
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_' || c == '.' || c == '~':
		return true
	default:
		return false
	}
}

func hexDigit(n byte) byte {
	const digits = "0123456789ABCDEF"
	return digits[n]
}

func hexSHA256(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func hmacSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

func deriveSigningKey(secret, datestamp, region string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+secret), []byte(datestamp))
	kRegion := hmacSHA256(kDate, []byte(region))
	kService := hmacSHA256(kRegion, []byte(service))
	return hmacSHA256(kService, []byte("aws4_request"))
}

// EmptyBodyHash is the hex SHA-256 of the empty string, the body hash
// every GET request (including the snapshot-pinning probe) uses.
var EmptyBodyHash = hexSHA256(nil)
