package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"dfalex/internal/diag"
	"dfalex/internal/source"
	"dfalex/internal/token"
	"dfalex/internal/trace"
)

// TokenizeDirResult содержит результат токенизации одного файла
type TokenizeDirResult struct {
	Path   string        // путь к файлу
	FileID source.FileID // ID файла в FileSet
	Tokens []token.Token // nil, если файл не загрузился
	Bag    *diag.Bag
}

// ListFiles возвращает отсортированный список файлов с нужными расширениями.
func ListFiles(dir string, exts []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && slices.Contains(exts, filepath.Ext(path)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	slices.Sort(files)
	return files, nil
}

// TokenizeDir токенизирует все подходящие файлы директории параллельно.
// Each file gets its own tokenizer and cursor; results keep ListFiles order.
func TokenizeDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []TokenizeDirResult, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "tokenize_dir", trace.ParentFrom(ctx))
	span.With("dir", dir)

	files, err := ListFiles(dir, opts.extensions())
	if err != nil {
		span.End("error")
		return nil, nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		span.End("files=0")
		return fileSet, nil, nil
	}

	// Предзагружаем все файлы до запуска воркеров: FileID идут в порядке ListFiles
	loadLap := opts.Timer.Start("load_files")
	fileIDs := make([]source.FileID, len(files))
	loadErrors := make(map[int]error)
	for i, path := range files {
		emit(opts.Progress, Event{File: path, Status: StatusQueued})
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[i] = err
			id = fileSet.AddVirtual(path, nil)
		}
		fileIDs[i] = id
	}
	loadLap.Stop(fmt.Sprintf("files=%d", len(files)))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	tab := opts.table()
	fileCtx := trace.WithParent(ctx, span.ID())

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]TokenizeDirResult, len(files))

	g, gctx := errgroup.WithContext(fileCtx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			bag := diag.NewBag(opts.MaxDiagnostics)
			results[i] = TokenizeDirResult{Path: path, FileID: fileIDs[i], Bag: bag}

			if loadErr, failed := loadErrors[i]; failed {
				bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.IOLoadFileError,
					Message:  "failed to load file: " + loadErr.Error(),
					Primary:  source.Span{File: fileIDs[i]},
				})
				emit(opts.Progress, Event{File: path, Status: StatusError, Err: loadErr})
				return nil
			}

			emit(opts.Progress, Event{File: path, Status: StatusWorking})
			started := time.Now()
			lap := opts.Timer.Start("tokenize_file")
			tokens := tokenizeFile(gctx, fileSet.Get(fileIDs[i]), tab, bag)
			lap.Stop("")
			results[i].Tokens = tokens

			status := StatusDone
			if bag.HasErrors() {
				status = StatusError
			}
			emit(opts.Progress, Event{File: path, Status: status, Tokens: len(tokens), Elapsed: time.Since(started)})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.End("canceled")
		return fileSet, results, err
	}

	span.With("files", strconv.Itoa(len(files)))
	span.End(fmt.Sprintf("failed=%d", len(loadErrors)))
	return fileSet, results, nil
}
