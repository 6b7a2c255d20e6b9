// internal/workflow/resources.go
package workflow

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ResourceDirs are copied from <project>/resources into a per-job resource dir.
var ResourceDirs = []string{"vg", "linear", "annotation", "centrifuge"}

// Reference files inside a prepared resource dir.
const (
	VGIndexName       = "vg/ecoli_graph_test"
	LinearName        = "linear/ecoli_linear"
	AnnotationGFFName = "annotation/GCF_000005845.2_ASM584v2_genomic.gff"
	AnnotationBEDName = "annotation/GCF_000005845.2_ASM584v2_genomic.bed"
	CentrifugeName    = "centrifuge/p_compressed+h+v"
)

// PrepareResources populates dir from projectRoot/resources, unless dir
// already exists, in which case it is reused as is. Many jobs run at once,
// each with its own copy.
func PrepareResources(projectRoot, dir string, log Logger) error {
	if _, err := os.Stat(dir); err == nil {
		log.Infof("Reusing existing resource directory: %s", dir)
		return nil
	}
	log.Infof("Creating resource directory: %s", dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, name := range ResourceDirs {
		src := filepath.Join(projectRoot, "resources", name)
		if err := copyTree(src, filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("copy resources %s: %w", name, err)
		}
	}
	log.Infof("Resource directory populated successfully: %s", dir)
	return nil
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	fi, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, fi.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
