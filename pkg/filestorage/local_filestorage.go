package filestorage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type FileStorageInterface interface {
	Save(file io.Reader, originalFileName string, prefix string) (filePath string, err error)
	// SaveAs сохраняет файл под заданным именем внутри prefix.
	SaveAs(file io.Reader, fileName string, prefix string) (filePath string, err error)
	Delete(filePath string) error
}

type LocalFileStorage struct {
	basePath string
}

func NewLocalFileStorage(basePath string) (FileStorageInterface, error) {
	if _, err := os.Stat(basePath); os.IsNotExist(err) {
		if err := os.MkdirAll(basePath, 0o755); err != nil {
			return nil, fmt.Errorf("не удалось создать директорию: %w", err)
		}
	}
	return &LocalFileStorage{basePath: basePath}, nil
}

func (s *LocalFileStorage) Save(file io.Reader, originalFileName string, prefix string) (string, error) {
	ext := filepath.Ext(originalFileName)
	uniqueFileName := fmt.Sprintf("%s-%s%s", time.Now().Format("2006-01-02"), uuid.New().String(), ext)

	datePath := time.Now().Format("2006/01/02")
	return s.write(file, filepath.Join(prefix, datePath), uniqueFileName)
}

func (s *LocalFileStorage) SaveAs(file io.Reader, fileName string, prefix string) (string, error) {
	if fileName != filepath.Base(fileName) || fileName == "." || fileName == "" {
		return "", fmt.Errorf("недопустимое имя файла: %q", fileName)
	}
	return s.write(file, prefix, fileName)
}

func (s *LocalFileStorage) write(file io.Reader, relDir, fileName string) (string, error) {
	fullDirPath := filepath.Join(s.basePath, relDir)
	if err := os.MkdirAll(fullDirPath, 0o755); err != nil {
		return "", err
	}

	dst, err := os.Create(filepath.Join(fullDirPath, fileName))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		return "", err
	}

	return "/uploads/" + filepath.ToSlash(filepath.Join(relDir, fileName)), nil
}

// Delete принимает путь вида "/uploads/maintenance/file.jpg".
// Отсутствующий файл не считается ошибкой.
func (s *LocalFileStorage) Delete(fileURL string) error {
	relativePath := strings.TrimPrefix(fileURL, "/uploads/")
	fullPath := filepath.Join(s.basePath, filepath.Clean("/"+relativePath))

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil
	}

	return os.Remove(fullPath)
}
