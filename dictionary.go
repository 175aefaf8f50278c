package imglink

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Entry associates a fingerprint with the link it resolves to.
type Entry struct {
	Hash string
	Link string
}

func (e Entry) validate() error {
	switch {
	case e.Hash == "":
		return errors.New("empty hash")
	case e.Link == "":
		return errors.New("empty link")
	case !ValidateLink(e.Link):
		return fmt.Errorf("invalid link %q", e.Link)
	}
	return nil
}

// Dictionary is the ordered list of entries read from a dictionary file.
type Dictionary []Entry

// Lookup returns the first entry whose hash equals hash, ignoring ASCII case.
func (d Dictionary) Lookup(hash string) (Entry, bool) {
	hash = strings.TrimSpace(hash)
	for _, e := range d {
		if strings.EqualFold(e.Hash, hash) {
			return e, true
		}
	}
	return Entry{}, false
}

// Similar returns the entry closest to hash with proximity at least threshold.
func (d Dictionary) Similar(hash string, threshold float64) (Match, error) {
	return FindBest(hash, d, threshold)
}

// canonicalHeader is written to dictionaries created by AppendDictionaryEntries.
var canonicalHeader = []string{"hash", "link"}

// columns locates the hash and link fields within a row.
type columns struct {
	hash, link int
	count      int
}

// resolveColumns accepts any header containing "hash" and "link" (any case,
// any position) or, failing that, exactly two columns read positionally.
func resolveColumns(header []string) (columns, error) {
	cols := columns{hash: -1, link: -1, count: len(header)}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "hash":
			if cols.hash < 0 {
				cols.hash = i
			}
		case "link":
			if cols.link < 0 {
				cols.link = i
			}
		}
	}
	if cols.hash >= 0 && cols.link >= 0 {
		return cols, nil
	}
	if len(header) == 2 {
		return columns{hash: 0, link: 1, count: 2}, nil
	}
	return columns{}, fmt.Errorf("%w: dictionary needs exactly two columns or columns named \"hash\" and \"link\", got %q",
		ErrFormat, header)
}

// delimiterFor maps a dictionary file extension to its field separator.
func delimiterFor(path string) (rune, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ',', nil
	case ".tsv":
		return '\t', nil
	}
	return 0, fmt.Errorf("%w: %s is not a .csv or .tsv file", ErrFormat, path)
}

func newReader(r io.Reader, comma rune) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	return cr
}

// readHeader reads the header row and resolves the hash/link columns.
func readHeader(cr *csv.Reader, path string) (columns, error) {
	header, err := cr.Read()
	if err != nil {
		return columns{}, fmt.Errorf("%w: read header of %s: %w", ErrFormat, path, err)
	}
	header = append([]string(nil), header...)
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return resolveColumns(header)
}

// LoadDictionary reads every usable hash/link row from a .csv or .tsv file.
//
// Columns named "hash" and "link" are used wherever they appear, so a
// two-column "link,hash" header is read by name, not by position. Any other
// two-column header is read positionally as hash, link.
//
// Rows with an empty hash, an empty link or a link that is not an absolute URL
// are skipped. The load fails only for file-level problems or when no row
// survives, in which case the error matches ErrNoValidEntries.
func LoadDictionary(path string) (Dictionary, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: dictionary %s: %w", ErrIO, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: dictionary %s is a directory", ErrIO, path)
	}
	comma, err := delimiterFor(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open dictionary: %w", ErrIO, err)
	}
	defer f.Close()

	cr := newReader(f, comma)
	cols, err := readHeader(cr, path)
	if err != nil {
		return nil, err
	}

	var dict Dictionary
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: %w", ErrFormat, path, row, err)
		}

		e := Entry{
			Hash: strings.TrimSpace(rec[cols.hash]),
			Link: strings.TrimSpace(rec[cols.link]),
		}
		if err := e.validate(); err != nil {
			slog.Debug("imglink: skipping dictionary row", "path", path, "row", row, "reason", err.Error())
			continue
		}
		dict = append(dict, e)
	}

	if len(dict) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoValidEntries, path)
	}
	return dict, nil
}

// AppendDictionaryEntries appends entries to the dictionary at path, creating
// it with a "hash,link" header when it does not exist yet.
//
// Rows are written with the file's own column count; columns other than hash
// and link are left blank. A missing final newline is repaired first so the
// new rows never merge into the last existing one. Entries are validated up
// front and nothing is written if any is invalid. Concurrent writers are not
// supported.
func AppendDictionaryEntries(path string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	comma, err := delimiterFor(path)
	if err != nil {
		return err
	}

	rows := make([]Entry, 0, len(entries))
	for i, e := range entries {
		e = Entry{Hash: strings.TrimSpace(e.Hash), Link: strings.TrimSpace(e.Link)}
		if err := e.validate(); err != nil {
			return fmt.Errorf("%w: entry %d: %w", ErrFormat, i, err)
		}
		rows = append(rows, e)
	}

	if err := ensureDictionary(path, comma); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("%w: open dictionary for append: %w", ErrIO, err)
	}
	defer f.Close()

	cols, err := readHeader(newReader(f, comma), path)
	if err != nil {
		return err
	}
	if err := ensureTrailingNewline(f); err != nil {
		return err
	}

	w := csv.NewWriter(f)
	w.Comma = comma
	for _, e := range rows {
		rec := make([]string, cols.count)
		rec[cols.hash] = e.Hash
		rec[cols.link] = e.Link
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("%w: write dictionary row: %w", ErrIO, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: flush dictionary: %w", ErrIO, err)
	}

	slog.Debug("imglink: appended dictionary entries", "path", path, "count", len(rows))
	return f.Close()
}

// ensureDictionary writes the canonical header when path is missing or empty.
func ensureDictionary(path string, comma rune) error {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.Size() > 0:
		return nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: dictionary %s: %w", ErrIO, path, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("%w: create dictionary: %w", ErrIO, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = comma
	if err := w.Write(canonicalHeader); err != nil {
		return fmt.Errorf("%w: write dictionary header: %w", ErrIO, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: write dictionary header: %w", ErrIO, err)
	}
	return f.Close()
}

// ensureTrailingNewline appends '\n' to a non-empty file that lacks one.
func ensureTrailingNewline(f *os.File) error {
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat dictionary: %w", ErrIO, err)
	}
	if info.Size() == 0 {
		return nil
	}

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return fmt.Errorf("%w: read dictionary tail: %w", ErrIO, err)
	}
	if last[0] == '\n' {
		return nil
	}
	if _, err := f.Write([]byte{'\n'}); err != nil {
		return fmt.Errorf("%w: repair dictionary newline: %w", ErrIO, err)
	}
	return nil
}
