package datastructure

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/go-playground/validator/v10"
	"github.com/lintang-b-s/smartmeet/pkg/util"
)

// NodeRecord is one entry of the "nodes" array of a nodes source.
type NodeRecord struct {
	ID     *string  `json:"id" validate:"required"`
	Lat    *float64 `json:"lat" validate:"required"`
	Lng    *float64 `json:"lng" validate:"required"`
	Name   *string  `json:"name,omitempty"`
	Campus *string  `json:"campus,omitempty"`
}

func NewNodeRecord(id string, lat, lng float64, name, campus string) NodeRecord {
	nr := NodeRecord{ID: &id, Lat: &lat, Lng: &lng}
	if name != "" {
		nr.Name = &name
	}
	if campus != "" {
		nr.Campus = &campus
	}
	return nr
}

// ToVertex converts a validated record. name defaults to the id, campus to untagged.
func (nr NodeRecord) ToVertex() Vertex {
	name, campus := "", ""
	if nr.Name != nil {
		name = *nr.Name
	}
	if nr.Campus != nil {
		campus = *nr.Campus
	}
	return NewVertex(*nr.ID, *nr.Lat, *nr.Lng, name, campus)
}

// EdgeRecord is one entry of the "edges" array of an edges source.
type EdgeRecord struct {
	From   *string  `json:"from" validate:"required"`
	To     *string  `json:"to" validate:"required"`
	Weight *float64 `json:"weight" validate:"required"`
}

func NewEdgeRecord(from, to string, weight float64) EdgeRecord {
	return EdgeRecord{From: &from, To: &to, Weight: &weight}
}

type nodesSource struct {
	Nodes []NodeRecord `json:"nodes" validate:"dive"`
}

type edgesSource struct {
	Edges []EdgeRecord `json:"edges" validate:"dive"`
}

type poisSource struct {
	Pois []json.RawMessage `json:"pois"`
}

var recordValidator = validator.New()

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() error {
	var errs []error
	for i := len(rc.closers) - 1; i >= 0; i-- {
		if err := rc.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OpenSource opens a data file, decompressing it when the name ends with .bz2.
func OpenSource(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, util.WrapErrorf(err, util.ErrNotFound, "data source %s not found", path)
		}
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "open data source %s", path)
	}
	if !strings.HasSuffix(path, ".bz2") {
		return f, nil
	}

	bz, err := bzip2.NewReader(f, nil)
	if err != nil {
		f.Close()
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "open bzip2 data source %s", path)
	}
	return &readCloser{Reader: bz, closers: []io.Closer{f, bz}}, nil
}

func decodeSource(r io.Reader, name string, dst any) error {
	if err := json.NewDecoder(bufio.NewReader(r)).Decode(dst); err != nil {
		return util.WrapErrorf(err, util.ErrBadParamInput, "malformed %s source", name)
	}
	if err := recordValidator.Struct(dst); err != nil {
		return util.WrapErrorf(err, util.ErrBadParamInput, "%s source has a record with a missing required field", name)
	}
	return nil
}

func DecodeNodes(r io.Reader) ([]NodeRecord, error) {
	var src nodesSource
	if err := decodeSource(r, "nodes", &src); err != nil {
		return nil, err
	}
	return src.Nodes, nil
}

func DecodeEdges(r io.Reader) ([]EdgeRecord, error) {
	var src edgesSource
	if err := decodeSource(r, "edges", &src); err != nil {
		return nil, err
	}
	return src.Edges, nil
}

func ReadNodes(path string) ([]NodeRecord, error) {
	rc, err := OpenSource(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return DecodeNodes(rc)
}

func ReadEdges(path string) ([]EdgeRecord, error) {
	rc, err := OpenSource(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return DecodeEdges(rc)
}

// DecodePOIs parses a pois source. records without usable lat/lng are skipped and counted in dropped.
func DecodePOIs(r io.Reader) (pois []POI, dropped int, err error) {
	var src poisSource
	if err := json.NewDecoder(bufio.NewReader(r)).Decode(&src); err != nil {
		return nil, 0, util.WrapErrorf(err, util.ErrBadParamInput, "malformed pois source")
	}

	pois = make([]POI, 0, len(src.Pois))
	for _, raw := range src.Pois {
		poi, ok := parsePOI(raw)
		if !ok {
			dropped++
			continue
		}
		pois = append(pois, poi)
	}
	return pois, dropped, nil
}

func ReadPOIs(path string) ([]POI, int, error) {
	rc, err := OpenSource(path)
	if err != nil {
		return nil, 0, err
	}
	defer rc.Close()
	return DecodePOIs(rc)
}

// WriteSource writes v as indented json to path, bzip2 compressed when the name ends with .bz2.
func WriteSource(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	var w io.Writer = f
	if strings.HasSuffix(path, ".bz2") {
		bz, berr := bzip2.NewWriter(f, &bzip2.WriterConfig{})
		if berr != nil {
			return berr
		}
		defer func() {
			if cerr := bz.Close(); err == nil {
				err = cerr
			}
		}()
		w = bz
	}

	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return bw.Flush()
}

func WriteNodes(path string, nodes []NodeRecord) error {
	return WriteSource(path, nodesSource{Nodes: nodes})
}

func WriteEdges(path string, edges []EdgeRecord) error {
	return WriteSource(path, edgesSource{Edges: edges})
}

func WritePOIs(path string, pois []POI) error {
	return WriteSource(path, struct {
		Pois []POI `json:"pois"`
	}{Pois: pois})
}
