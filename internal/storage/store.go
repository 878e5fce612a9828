package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/lsys/internal/config"
	"github.com/san-kum/lsys/internal/raster"
	"github.com/san-kum/lsys/internal/render"
)

var ErrNoFrames = errors.New("storage: no frames to save")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Dir() string { return s.baseDir }

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// SaveOptions selects which images accompany a run.
type SaveOptions struct {
	Format   raster.Format
	Frames   bool // write every iteration as frame_NN
	GIF      bool
	GIFDelay int // hundredths of a second
}

type RunMetadata struct {
	ID         string            `json:"id"`
	Preset     string            `json:"preset"`
	Timestamp  time.Time         `json:"timestamp"`
	Axiom      string            `json:"axiom"`
	Rules      map[string]string `json:"rules"`
	Iterations int               `json:"iterations"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	Format     string            `json:"format"`
	Symbols    int               `json:"symbols"`
	Segments   int               `json:"segments"`
	MaxDepth   int               `json:"max_depth"`
	Elapsed    time.Duration     `json:"elapsed_ns"`
	Files      []string          `json:"files"`
}

// Growth is one row of growth.csv.
type Growth struct {
	Iteration int
	Symbols   int
	Segments  int
	MaxDepth  int
	Elapsed   time.Duration
}

// Save writes a run directory for frames, which must be in iteration order.
// The last frame becomes final.<ext>. A failed save leaves no run behind.
func (s *Store) Save(p config.Preset, frames []*render.Frame, opts SaveOptions) (_ string, err error) {
	if len(frames) == 0 {
		return "", ErrNoFrames
	}
	if opts.Format == "" {
		opts.Format = raster.PNG
	}

	runID, runDir, err := s.mkRunDir(p.Name)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
		}
	}()

	last := frames[len(frames)-1]
	var elapsed time.Duration
	for _, f := range frames {
		elapsed += f.Elapsed
	}

	meta := RunMetadata{
		ID:         runID,
		Preset:     p.Name,
		Timestamp:  time.Now(),
		Axiom:      p.Axiom,
		Rules:      p.Rules,
		Iterations: last.Iteration,
		Width:      last.Canvas.Width(),
		Height:     last.Canvas.Height(),
		Format:     string(opts.Format),
		Symbols:    last.Symbols,
		Segments:   len(last.Segments),
		MaxDepth:   last.MaxDepth,
		Elapsed:    elapsed,
	}

	final := "final" + opts.Format.Ext()
	if err := writeImage(filepath.Join(runDir, final), last.Canvas, opts.Format); err != nil {
		return "", err
	}
	meta.Files = append(meta.Files, final)

	if opts.Frames {
		for _, f := range frames {
			name := fmt.Sprintf("frame_%02d%s", f.Iteration, opts.Format.Ext())
			if err := writeImage(filepath.Join(runDir, name), f.Canvas, opts.Format); err != nil {
				return "", err
			}
			meta.Files = append(meta.Files, name)
		}
	}

	if opts.GIF {
		imgs := make([]image.Image, len(frames))
		for i, f := range frames {
			imgs[i] = f.Canvas
		}
		if err := writeGIF(filepath.Join(runDir, "anim.gif"), imgs, opts.GIFDelay); err != nil {
			return "", err
		}
		meta.Files = append(meta.Files, "anim.gif")
	}

	if err := writeGrowth(filepath.Join(runDir, "growth.csv"), frames); err != nil {
		return "", err
	}
	meta.Files = append(meta.Files, "growth.csv")

	if err := writeMetadata(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	return runID, nil
}

// mkRunDir creates a fresh directory, suffixing the id when two runs of the
// same preset land on the same clock tick.
func (s *Store) mkRunDir(name string) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	if name == "" {
		name = "run"
	}
	base := fmt.Sprintf("%s_%d", name, time.Now().UnixNano())
	for i := 0; ; i++ {
		id := base
		if i > 0 {
			id = fmt.Sprintf("%s_%d", base, i)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", "", err
		}
	}
}

func writeImage(path string, img image.Image, f raster.Format) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := raster.Encode(file, img, f); err != nil {
		file.Close()
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return file.Close()
}

func writeMetadata(path string, meta RunMetadata) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		file.Close()
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return file.Close()
}

func writeGIF(path string, frames []image.Image, delay int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := raster.EncodeGIF(file, frames, delay); err != nil {
		file.Close()
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return file.Close()
}

func writeGrowth(path string, frames []*render.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"iteration", "symbols", "segments", "max_depth", "elapsed_ms"}); err != nil {
		return err
	}
	for _, f := range frames {
		row := []string{
			strconv.Itoa(f.Iteration),
			strconv.Itoa(f.Symbols),
			strconv.Itoa(len(f.Segments)),
			strconv.Itoa(f.MaxDepth),
			strconv.FormatFloat(float64(f.Elapsed)/float64(time.Millisecond), 'f', 3, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns the stored runs, newest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return &meta, nil
}

// Path returns the location of a file inside a run directory.
func (s *Store) Path(runID, name string) string {
	return filepath.Join(s.baseDir, runID, name)
}

func (s *Store) LoadGrowth(runID string) ([]Growth, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "growth.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Growth{}, nil
	}

	out := make([]Growth, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) < 5 {
			return nil, fmt.Errorf("storage: growth row %d: %d fields", i+1, len(rec))
		}
		var g Growth
		var ints [4]int
		for j := range ints {
			v, err := strconv.Atoi(rec[j])
			if err != nil {
				return nil, fmt.Errorf("storage: growth row %d: %w", i+1, err)
			}
			ints[j] = v
		}
		ms, err := strconv.ParseFloat(rec[4], 64)
		if err != nil {
			return nil, fmt.Errorf("storage: growth row %d: %w", i+1, err)
		}
		g.Iteration, g.Symbols, g.Segments, g.MaxDepth = ints[0], ints[1], ints[2], ints[3]
		g.Elapsed = time.Duration(ms * float64(time.Millisecond))
		out = append(out, g)
	}
	return out, nil
}
