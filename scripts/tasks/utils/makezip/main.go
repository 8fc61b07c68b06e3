package main

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const docsSite = "https://intermezzoproject.org"

// docsBaseURL is a var so tests can point it at a local server.
var docsBaseURL = "https://github.com/IntermezzoProject/intermezzoproject.org/raw/refs/heads/main/docs/platforms/"

var platformDocs = map[string]string{
	"linux":  "linux.mdx",
	"mister": "mister.md",
}

func stripFrontmatter(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) > 0 && lines[0] == "---" {
		for i := 1; i < len(lines); i++ {
			if lines[i] == "---" {
				return strings.Join(lines[i+1:], "\n")
			}
		}
	}
	return content
}

var markdownLinkRe = regexp.MustCompile(`\]\(([^)]+)\)`)

// expandRelativeLinks rewrites relative markdown links to absolute site
// URLs, so they still work from a README.txt. Platform docs live under
// docs/platforms/, and "../" never escapes past docs/.
func expandRelativeLinks(content, _ string) string {
	return markdownLinkRe.ReplaceAllStringFunc(content, func(match string) string {
		target := match[2 : len(match)-1]
		if strings.HasPrefix(target, "http://") ||
			strings.HasPrefix(target, "https://") ||
			strings.HasPrefix(target, "/") ||
			strings.HasPrefix(target, "#") {
			return match
		}

		anchor := ""
		if i := strings.Index(target, "#"); i >= 0 {
			anchor = target[i:]
			target = target[:i]
		}

		base := []string{"docs", "platforms"}
		target = strings.TrimPrefix(target, "./")
		for strings.HasPrefix(target, "../") {
			if len(base) > 1 {
				base = base[:len(base)-1]
			}
			target = strings.TrimPrefix(target, "../")
		}

		segments := base
		for _, seg := range strings.Split(target, "/") {
			if seg != "" {
				segments = append(segments, seg)
			}
		}
		last := segments[len(segments)-1]
		last = strings.TrimSuffix(last, ".mdx")
		last = strings.TrimSuffix(last, ".md")
		if last == "index" {
			segments = segments[:len(segments)-1]
		} else {
			segments[len(segments)-1] = last
		}

		return "](" + docsSite + "/" + strings.Join(segments, "/") + "/" + anchor + ")"
	})
}

// addDocFooter appends a pointer to the full online documentation.
func addDocFooter(content, platformID string) string {
	url := docsSite + "/docs/"
	if _, ok := platformDocs[platformID]; ok {
		url = docsSite + "/docs/platforms/" + platformID + "/"
	}
	return content + "\n\n---\n\nFull documentation: " + url
}

func downloadDoc(platformID, toDir string) error {
	fileName, ok := platformDocs[platformID]
	if !ok {
		return fmt.Errorf("platform '%s' not found in the platforms list", platformID)
	}

	url := docsBaseURL + fileName

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			_, _ = fmt.Printf("error closing response body: %v\n", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading %s: unexpected status %s", url, resp.Status)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	processed := stripFrontmatter(string(content))
	processed = expandRelativeLinks(processed, platformID)
	processed = addDocFooter(strings.TrimSpace(processed), platformID)

	return os.WriteFile(filepath.Join(toDir, "README.txt"), []byte(processed+"\n"), 0o644)
}

func main() {
	if len(os.Args) < 5 {
		_, _ = fmt.Println("Usage: go run main.go <platform> <build_dir> <app_bin> <archive_name>")
		os.Exit(1)
	}

	platform := os.Args[1]
	buildDir := os.Args[2]
	appBin := os.Args[3]
	archiveName := os.Args[4]

	if _, err := os.Stat(buildDir); os.IsNotExist(err) {
		_, _ = fmt.Printf("The specified directory '%s' does not exist\n", buildDir)
		os.Exit(1)
	}

	licensePath := filepath.Join(buildDir, "LICENSE.txt")
	if _, err := os.Stat(licensePath); os.IsNotExist(err) {
		input, err := os.ReadFile("LICENSE")
		if err != nil {
			_, _ = fmt.Printf("Error reading LICENSE file: %v\n", err)
			os.Exit(1)
		}
		err = os.WriteFile(licensePath, input, 0o644)
		if err != nil {
			_, _ = fmt.Printf("Error copying LICENSE file: %v\n", err)
			os.Exit(1)
		}
	}

	appPath := filepath.Join(buildDir, appBin)
	if _, err := os.Stat(appPath); os.IsNotExist(err) {
		_, _ = fmt.Printf("The specified binary file '%s' does not exist\n", appPath)
		os.Exit(1)
	}

	archivePath := filepath.Join(buildDir, archiveName)
	_ = os.Remove(archivePath)

	readmePath := filepath.Join(buildDir, "README.txt")
	if _, err := os.Stat(readmePath); os.IsNotExist(err) {
		if err := downloadDoc(platform, buildDir); err != nil {
			_, _ = fmt.Printf("Error downloading documentation: %v\n", err)
			os.Exit(1)
		}
	}

	// MiSTer updaters expect zips; the desktop build ships a tarball so
	// the executable bit survives extraction.
	var err error
	if strings.HasSuffix(archiveName, ".tar.gz") {
		err = createTarGzFile(archivePath, appPath, licensePath, readmePath)
	} else {
		err = createZipFile(archivePath, appPath, licensePath, readmePath)
	}
	if err != nil {
		_, _ = fmt.Printf("Error creating archive: %v\n", err)
		os.Exit(1)
	}
}

func createZipFile(zipPath, appPath, licensePath, readmePath string) error {
	zipFile, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("error creating zip file: %w", err)
	}
	defer func(zipFile *os.File) {
		_ = zipFile.Close()
	}(zipFile)

	zipWriter := zip.NewWriter(zipFile)
	defer func(zipWriter *zip.Writer) {
		_ = zipWriter.Close()
	}(zipWriter)

	for _, path := range []string{appPath, licensePath, readmePath} {
		if err := addFileToZip(zipWriter, path, filepath.Base(path)); err != nil {
			return fmt.Errorf("error adding file to zip: %w", err)
		}
	}

	return nil
}

func addFileToZip(zipWriter *zip.Writer, filePath, arcname string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	info, err := file.Stat()
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = arcname
	header.Method = zip.Deflate

	writer, err := zipWriter.CreateHeader(header)
	if err != nil {
		return err
	}

	_, err = io.Copy(writer, file)
	return err
}

func createTarGzFile(tarGzPath, appPath, licensePath, readmePath string) error {
	tarGzFile, err := os.Create(tarGzPath)
	if err != nil {
		return fmt.Errorf("error creating tar.gz file: %w", err)
	}
	defer func(tarGzFile *os.File) {
		_ = tarGzFile.Close()
	}(tarGzFile)

	gzWriter := gzip.NewWriter(tarGzFile)
	defer func(gzWriter *gzip.Writer) {
		_ = gzWriter.Close()
	}(gzWriter)

	tarWriter := tar.NewWriter(gzWriter)
	defer func(tarWriter *tar.Writer) {
		_ = tarWriter.Close()
	}(tarWriter)

	for _, path := range []string{appPath, licensePath, readmePath} {
		if err := addFileToTar(tarWriter, path, filepath.Base(path)); err != nil {
			return fmt.Errorf("error adding file to tar: %w", err)
		}
	}

	return nil
}

func addFileToTar(tarWriter *tar.Writer, filePath, arcname string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	info, err := file.Stat()
	if err != nil {
		return err
	}

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	header.Name = arcname

	if err := tarWriter.WriteHeader(header); err != nil {
		return err
	}

	_, err = io.Copy(tarWriter, file)
	return err
}
