package monovid

import (
	"context"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"github.com/bodgit/monovid/source"
	"github.com/bodgit/monovid/video"
)

// Number of directories encoded concurrently by Scan
const scanWorkers = 10

var errWalkCancelled = errors.New("walk cancelled")

func containsFrames(dir string) (bool, error) {
	files, err := source.Frames(dir, source.DefaultPattern)
	if err != nil {
		return false, err
	}
	return len(files) > 0, nil
}

func (m *Monovid) findDirectories(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(dir string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a directory
			if !info.Mode().IsDir() {
				return nil
			}

			// Only directories holding frames are worth a worker
			ok, err := containsFrames(dir)
			if err != nil || !ok {
				return err
			}

			select {
			case out <- dir:
			case <-ctx.Done():
				return errWalkCancelled
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (m *Monovid) encodeDirectory(dir string) error {
	src, err := source.OpenDir(dir, source.DefaultPattern)
	if err != nil {
		return err
	}
	defer src.Close()

	data, stats, err := EncodeImages(m.cfg, src, 0, m.logger)
	if err != nil {
		return err
	}

	if err := ioutil.WriteFile(filepath.Join(dir, video.Filename), data, os.FileMode(0644)); err != nil {
		return err
	}

	if err := m.db.Add(filepath.Base(dir), data); err != nil {
		return err
	}

	m.logger.Printf("Encoded \"%s\", %d frames in %d bytes\n", dir, stats.Frames, stats.Bytes)

	return nil
}

func (m *Monovid) directoryWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for dir := range in {
			if ctx.Err() != nil {
				return
			}

			if err := m.encodeDirectory(dir); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan walks path and encodes every directory containing frame images,
// writing the stream alongside the frames and adding it to the library under
// the directory name.
func (m *Monovid) Scan(path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	dirs, errc, err := m.findDirectories(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < scanWorkers; i++ {
		errc, err := m.directoryWorker(ctx, dirs)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
