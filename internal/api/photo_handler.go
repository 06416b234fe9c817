package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dutchcoders/go-clamd"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dreamycv/internal/storage"
)

// photoPrefix 是照片对象在 Bucket 里的统一前缀。
const photoPrefix = "photos/"

// PhotoHandler 负责简历照片的上传与访问。照片既可以作为 data URL
// 内联在草稿里，也可以走这里上传后在草稿里引用对象键。
type PhotoHandler struct {
	Storage   *storage.Client
	Logger    *slog.Logger
	ClamdAddr string
}

// NewPhotoHandler 返回 PhotoHandler 实例。
func NewPhotoHandler(storageClient *storage.Client, logger *slog.Logger, clamdAddr string) *PhotoHandler {
	return &PhotoHandler{
		Storage:   storageClient,
		Logger:    logger,
		ClamdAddr: clamdAddr,
	}
}

// UploadPhoto 处理照片上传，配置了 clamd 时先做病毒扫描。
func (h *PhotoHandler) UploadPhoto(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "missing file")
		return
	}

	if h.ClamdAddr != "" {
		clamdClient := clamd.NewClamd(h.ClamdAddr)

		fileReader, err := file.Open()
		if err != nil {
			Internal(c, "failed to open file")
			return
		}

		abortChan := make(chan bool)
		scanChan, err := clamdClient.ScanStream(fileReader, abortChan)
		fileReader.Close()
		if err != nil {
			h.Logger.Error("scan file", slog.String("error", err.Error()))
			Internal(c, "failed to scan file")
			return
		}
		defer close(abortChan)

		for result := range scanChan {
			if result.Status != clamd.RES_OK {
				BadRequest(c, "malicious file detected")
				return
			}
		}
	}

	fileReader, err := file.Open()
	if err != nil {
		Internal(c, "failed to reopen file")
		return
	}
	defer fileReader.Close()

	objectKey := fmt.Sprintf("%s%s.png", photoPrefix, uuid.NewString())
	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if _, err := h.Storage.UploadFile(c.Request.Context(), objectKey, fileReader, file.Size, contentType); err != nil {
		h.Logger.Error("upload file", slog.String("error", err.Error()))
		Internal(c, "failed to upload file")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"objectKey": objectKey})
}

// ListPhotos 列出已上传的照片及其预览链接。
func (h *PhotoHandler) ListPhotos(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "60")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 60
	}
	if limit > 200 {
		limit = 200
	}

	objects, err := h.Storage.ListObjects(c.Request.Context(), photoPrefix, limit)
	if err != nil {
		h.Logger.Error("list photos", slog.String("error", err.Error()))
		Internal(c, "failed to list photos")
		return
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].LastModified.After(objects[j].LastModified)
	})

	items := make([]gin.H, 0, len(objects))
	for _, obj := range objects {
		url, err := h.Storage.GeneratePresignedURL(c.Request.Context(), obj.Key, 10*time.Minute)
		if err != nil {
			h.Logger.Error("generate photo url", slog.String("objectKey", obj.Key), slog.String("error", err.Error()))
			continue
		}
		items = append(items, gin.H{
			"objectKey":    obj.Key,
			"previewUrl":   url,
			"size":         obj.Size,
			"lastModified": obj.LastModified,
		})
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetPhotoURL 返回照片的临时预签名 URL。
func (h *PhotoHandler) GetPhotoURL(c *gin.Context) {
	objectKey := c.Query("key")
	if objectKey == "" {
		BadRequest(c, "missing key")
		return
	}
	if !strings.HasPrefix(objectKey, photoPrefix) {
		Forbidden(c, "access denied")
		return
	}

	if _, err := h.Storage.StatObject(c.Request.Context(), objectKey); err != nil {
		if storage.IsNoSuchKey(err) {
			NotFound(c, "photo not found")
			return
		}
		h.Logger.Error("stat photo", slog.String("error", err.Error()))
		Internal(c, "failed to check photo")
		return
	}

	signedURL, err := h.Storage.GeneratePresignedURL(c.Request.Context(), objectKey, 15*time.Minute)
	if err != nil {
		h.Logger.Error("generate presigned url", slog.String("error", err.Error()))
		Internal(c, "failed to generate url")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": signedURL})
}

// DeletePhoto 删除照片对象，幂等。
func (h *PhotoHandler) DeletePhoto(c *gin.Context) {
	objectKey := c.Query("key")
	if objectKey == "" {
		BadRequest(c, "missing key")
		return
	}
	if !strings.HasPrefix(objectKey, photoPrefix) {
		Forbidden(c, "access denied")
		return
	}

	if err := h.Storage.DeleteObject(c.Request.Context(), objectKey); err != nil {
		h.Logger.Error("delete photo", slog.String("error", err.Error()))
		Internal(c, "failed to delete photo")
		return
	}
	c.Status(http.StatusNoContent)
}
