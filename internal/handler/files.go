package handler

import (
	"io"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// publicPrefix marks blob keys served without a signature (product images).
const publicPrefix = "products/"

func (h *Handler) priceListURL(w http.ResponseWriter, r *http.Request) {
	url := h.signer.SignedURL(h.cfg.PriceListKey, h.cfg.PriceListTTL, time.Now())
	respond(w, http.StatusOK, map[string]string{"url": url})
}

// uploadImage accepts a multipart product image and stores it under a
// unique key, returning the public URL for use in a product record.
func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	key := publicPrefix + uuid.New().String() + "-" + sanitizeFilename(header.Filename)
	if err := h.blobs.Put(r.Context(), key, data); err != nil {
		respondDomainError(w, r, err)
		return
	}

	respond(w, http.StatusCreated, map[string]string{"public_url": h.signer.PublicURL(key)})
}

// serveFile serves stored blobs. Product images are public; everything
// else (invoices, the price list) requires a valid signed URL or an admin
// credential.
func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")

	if !strings.HasPrefix(key, publicPrefix) && !h.fileAccessAllowed(r, key) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	data, err := h.blobs.Open(r.Context(), key)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) fileAccessAllowed(r *http.Request, key string) bool {
	if id := IdentityFrom(r.Context()); id != nil && id.Admin {
		return true
	}
	q := r.URL.Query()
	return h.signer.Verify(key, q.Get("exp"), q.Get("sig"), time.Now())
}

// sanitizeFilename keeps the base name and replaces anything that is not a
// letter, digit, dot, dash or underscore.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "file"
	}
	return string(out)
}
