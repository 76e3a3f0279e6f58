package fsutil_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"docscan/internal/fsutil"
	"docscan/internal/testsupport"
)

func TestIsImageAndIsPDF(t *testing.T) {
	if !fsutil.IsImage("scan.JPG") || !fsutil.IsImage("page.tiff") || !fsutil.IsImage("x.webp") {
		t.Fatal("expected common scan extensions to be images")
	}
	if fsutil.IsImage("dossier.pdf") || fsutil.IsImage("notes.txt") {
		t.Fatal("non-image extensions reported as images")
	}
	if !fsutil.IsPDF("dossier.PDF") {
		t.Fatal("expected .PDF to be recognized")
	}
}

func TestCandidateFilesFiltersAndSorts(t *testing.T) {
	dir := testsupport.WriteScanFolder(t, "ho so 01",
		"002.jpg", "001.jpg", "notes.txt", "dossier.pdf", "Thumbs.db",
	)

	files, err := fsutil.CandidateFiles(dir)
	if err != nil {
		t.Fatalf("CandidateFiles failed: %v", err)
	}

	want := []string{
		filepath.Join(dir, "001.jpg"),
		filepath.Join(dir, "002.jpg"),
		filepath.Join(dir, "dossier.pdf"),
	}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
}

func TestListSubfolders(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"b", "a"} {
		if err := os.Mkdir(filepath.Join(root, name), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "stray.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	folders, err := fsutil.ListSubfolders(root)
	if err != nil {
		t.Fatalf("ListSubfolders failed: %v", err)
	}
	want := []string{filepath.Join(root, "a"), filepath.Join(root, "b")}
	if !reflect.DeepEqual(folders, want) {
		t.Fatalf("folders = %v, want %v", folders, want)
	}
}

func TestReadManifestSkipsBlanksAndComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.txt")
	content := "# dossiers for today\n/scans/one\n\n  /scans/two  \n# done\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	folders, err := fsutil.ReadManifest(path)
	if err != nil {
		t.Fatalf("ReadManifest failed: %v", err)
	}
	want := []string{"/scans/one", "/scans/two"}
	if !reflect.DeepEqual(folders, want) {
		t.Fatalf("folders = %v, want %v", folders, want)
	}
}

func TestReadManifestMissingFile(t *testing.T) {
	if _, err := fsutil.ReadManifest(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}
