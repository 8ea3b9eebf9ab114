package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tkmc-personal/hybridsizer/internal/api/models"
)

// DatasetHandler lists the resource CSV files bundled alongside the server,
// so clients can discover what profiles are available locally.
type DatasetHandler struct {
	dataDir string
}

// NewDatasetHandler creates a new dataset handler. The directory comes from
// HYBRIDSIZER_DATA_DIR, defaulting to ./data.
func NewDatasetHandler() *DatasetHandler {
	dir := os.Getenv("HYBRIDSIZER_DATA_DIR")
	if dir == "" {
		dir = "./data"
	}
	return &DatasetHandler{dataDir: dir}
}

// ListDatasets handles GET /api/v1/datasets
func (h *DatasetHandler) ListDatasets(c *gin.Context) {
	entries, err := os.ReadDir(h.dataDir)
	if err != nil {
		// An absent directory means no bundled datasets, not a failure.
		c.JSON(http.StatusOK, gin.H{"datasets": []models.DatasetInfo{}})
		return
	}

	datasets := make([]models.DatasetInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".csv")
		datasets = append(datasets, models.DatasetInfo{
			ID:    id,
			Name:  strings.ReplaceAll(id, "_", " "),
			File:  filepath.Join(h.dataDir, e.Name()),
			Bytes: info.Size(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"datasets": datasets})
}
