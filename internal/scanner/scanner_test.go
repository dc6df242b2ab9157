package scanner_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frherrer/tcgen/internal/domain"
	"github.com/frherrer/tcgen/internal/scanner"
)

func touch(root string, rel ...string) {
	for _, r := range rel {
		path := filepath.Join(root, r)
		Expect(os.MkdirAll(filepath.Dir(path), 0755)).To(Succeed())
		Expect(os.WriteFile(path, []byte("requirement"), 0644)).To(Succeed())
	}
}

var _ = Describe("Scanner", func() {
	var (
		s    *scanner.FileScanner
		root string
	)

	BeforeEach(func() {
		s = scanner.NewScanner(true)
		root = GinkgoT().TempDir()
		touch(root,
			"login.txt",
			"checkout.md",
			"notes.log",
			filepath.Join("billing", "invoices.pdf"),
			filepath.Join("billing", "refunds.docx"),
			filepath.Join("vendor", "lib", "readme.md"),
		)
	})

	It("should find matching documents recursively", func() {
		files, err := s.Scan(root, []string{"*.txt", "*.md", "*.pdf", "*.docx"}, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(files).To(HaveLen(5))
	})

	It("should return sorted file paths", func() {
		files, err := s.Scan(root, []string{"*.md", "*.txt"}, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(files).To(Equal([]string{
			filepath.Join(root, "checkout.md"),
			filepath.Join(root, "login.txt"),
			filepath.Join(root, "vendor", "lib", "readme.md"),
		}))
	})

	It("should respect exclude patterns", func() {
		files, err := s.Scan(root, []string{"*.md"}, []string{"vendor/**"})
		Expect(err).ToNot(HaveOccurred())
		Expect(files).To(Equal([]string{filepath.Join(root, "checkout.md")}))
	})

	It("should exclude files by base name", func() {
		files, err := s.Scan(root, []string{"*.pdf", "*.docx"}, []string{"refunds.docx"})
		Expect(err).ToNot(HaveOccurred())
		Expect(files).To(Equal([]string{filepath.Join(root, "billing", "invoices.pdf")}))
	})

	It("should match ** include patterns under a directory", func() {
		files, err := s.Scan(root, []string{"billing/**/*.pdf"}, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(files).To(Equal([]string{filepath.Join(root, "billing", "invoices.pdf")}))
	})

	It("should handle non-recursive mode", func() {
		s = scanner.NewScanner(false)
		files, err := s.Scan(root, []string{"*.md", "*.pdf"}, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(files).To(Equal([]string{filepath.Join(root, "checkout.md")}))
	})

	It("should return a scan error for a nonexistent directory", func() {
		_, err := s.Scan(filepath.Join(root, "missing"), []string{"*.md"}, nil)
		Expect(err).To(HaveOccurred())
		Expect(domain.KindOf(err)).To(Equal(domain.KindScan))
	})
})
