package filemgr

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"andariego/db"
	"andariego/rdx"
	"andariego/utils"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	maxUploadSize = 10 << 20 // 10 MB
	thumbWidth    = 400
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Uploader writes tour images under a configured directory and serves them
// back as static files.
type Uploader struct {
	Dir string
}

func NewUploader(dir string) *Uploader {
	return &Uploader{Dir: dir}
}

// UploadTourImage accepts a multipart "image" field, stores the original
// plus a thumbnail, and points the tour record at the new file.
func (u *Uploader) UploadTourImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tourID := ps.ByName("tourid")

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "File too large or malformed form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Missing image file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		http.Error(w, "Unsupported image type", http.StatusBadRequest)
		return
	}

	imageID := uuid.New().String()
	fileName := imageID + ext

	if err := os.MkdirAll(u.Dir, 0o755); err != nil {
		log.Println("Upload dir error:", err)
		http.Error(w, "Failed to store image", http.StatusInternalServerError)
		return
	}

	destPath := filepath.Join(u.Dir, fileName)
	dest, err := os.Create(destPath)
	if err != nil {
		log.Println("Upload create error:", err)
		http.Error(w, "Failed to store image", http.StatusInternalServerError)
		return
	}
	if _, err := io.Copy(dest, file); err != nil {
		dest.Close()
		os.Remove(destPath)
		http.Error(w, "Failed to store image", http.StatusInternalServerError)
		return
	}
	dest.Close()

	if err := u.writeThumbnail(destPath, imageID); err != nil {
		log.Printf("Thumbnail generation failed for %s: %v", fileName, err)
	}

	imageURL := "/static/tourpic/" + fileName
	res, err := db.TourCollection.UpdateOne(ctx,
		bson.M{"tourid": tourID},
		bson.M{"$set": bson.M{
			"imageUrl":  imageURL,
			"imageId":   imageID,
			"updatedAt": time.Now(),
		}},
	)
	if err != nil {
		os.Remove(destPath)
		http.Error(w, "Failed to update tour", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		os.Remove(destPath)
		http.Error(w, "Tour not found", http.StatusNotFound)
		return
	}

	if _, err := rdx.RdxDel("tour:" + tourID); err != nil {
		log.Printf("Cache deletion failed for tour %s: %v", tourID, err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"imageUrl": imageURL,
		"imageId":  imageID,
	})
}

// writeThumbnail re-decodes the stored original and saves a fixed-width
// thumbnail next to it.
func (u *Uploader) writeThumbnail(srcPath, imageID string) error {
	img, err := imaging.Open(srcPath)
	if err != nil {
		return err
	}
	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	thumbPath := filepath.Join(u.Dir, fmt.Sprintf("%s_thumb.jpg", imageID))
	return imaging.Save(thumb, thumbPath)
}
