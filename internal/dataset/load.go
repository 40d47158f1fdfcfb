package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// LoadOptions controls how a delimited file is read.
type LoadOptions struct {
	// Delimiter for the file. If 0, picked from the file extension.
	Delimiter rune
	// Region overrides the AWS region used for s3:// sources.
	Region string
}

// DelimiterFor picks a delimiter from a file name: tab for .tsv, comma otherwise.
func DelimiterFor(name string) rune {
	if strings.HasSuffix(strings.ToLower(name), ".tsv") {
		return '\t'
	}
	return ','
}

// Load parses delimited text into a RawTable. Every cell is kept as a string;
// numeric coercion is a cleaning step. A file holding only a header yields a
// table with no rows.
func Load(r io.Reader, name string, delim rune) (*RawTable, error) {
	if delim == 0 {
		delim = DelimiterFor(name)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	// gota renames repeated column names, so the header comes from the raw text
	header, hasRows, err := readHeader(body, delim)
	if err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	if !hasRows {
		return NewRawTable(name, header, nil), nil
	}
	df := dataframe.ReadCSV(bytes.NewReader(body),
		dataframe.WithDelimiter(delim),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("parse dataset: %w", df.Err)
	}
	recs := df.Records()
	if len(recs) < 2 {
		return NewRawTable(name, header, nil), nil
	}
	return NewRawTable(name, header, recs[1:]), nil
}

// readHeader returns the trimmed first record and whether another record
// follows it.
func readHeader(body []byte, delim rune) ([]string, bool, error) {
	cr := csv.NewReader(bytes.NewReader(body))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	first, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	header := make([]string, len(first))
	for i, h := range first {
		header[i] = strings.TrimSpace(h)
	}
	if _, err := cr.Read(); errors.Is(err, io.EOF) {
		return header, false, nil
	}
	return header, true, nil
}

// Read opens location (a local path or s3://bucket/key), parses it and checks
// the schema.
func Read(ctx context.Context, location string, opt LoadOptions) (*RawTable, error) {
	rc, err := Open(ctx, location, opt)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	t, err := Load(rc, path.Base(location), opt.Delimiter)
	if err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
