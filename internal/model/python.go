package model

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/jengzang/flight-demand-go/internal/logger"
	"github.com/jengzang/flight-demand-go/internal/models"
)

const (
	defaultPythonTimeout = 10 * time.Second
	closeGrace           = 2 * time.Second
	stderrTail           = 4 << 10
)

// ErrWorkerStopped is returned when the Python worker exits or stops answering.
var ErrWorkerStopped = errors.New("python worker stopped")

// PythonPredictor keeps one Python worker running the serialized estimator.
// The worker loads the model, prints {"ready": true}, then answers each JSON
// feature line on stdin with one {"prediction": <float>} or {"error": "..."}
// line on stdout. A worker that dies or times out is restarted on the next call.
type PythonPredictor struct {
	pythonBin string
	script    string
	modelPath string
	timeout   time.Duration

	mu     sync.Mutex
	worker *pythonWorker
}

// NewPythonPredictor checks cfg and starts the worker. It fails when the
// script or model file is missing or the worker never reports ready.
func NewPythonPredictor(cfg Config) (*PythonPredictor, error) {
	if cfg.Script == "" {
		return nil, fmt.Errorf("python predictor needs a script")
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("python predictor needs a model path")
	}
	for _, path := range []string{cfg.Script, cfg.Path} {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("python predictor: %w", err)
		}
	}

	p := &PythonPredictor{
		pythonBin: cfg.PythonBin,
		script:    cfg.Script,
		modelPath: cfg.Path,
		timeout:   cfg.Timeout,
	}
	if p.pythonBin == "" {
		p.pythonBin = "python3"
	}
	if p.timeout <= 0 {
		p.timeout = defaultPythonTimeout
	}

	w, err := p.start()
	if err != nil {
		return nil, err
	}
	p.worker = w
	return p, nil
}

type pythonResult struct {
	Ready      bool     `json:"ready,omitempty"`
	Prediction *float64 `json:"prediction"`
	Error      string   `json:"error,omitempty"`
}

// Predict implements Predictor. Calls are serialized over the one worker.
func (p *PythonPredictor) Predict(ctx context.Context, features models.FeatureRecord) (float64, error) {
	input, err := json.Marshal(features)
	if err != nil {
		return 0, fmt.Errorf("failed to encode features: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.worker == nil {
		w, err := p.start()
		if err != nil {
			return 0, err
		}
		p.worker = w
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	line, err := p.worker.roundTrip(ctx, append(input, '\n'))
	if err != nil {
		p.worker.stop()
		p.worker = nil
		return 0, err
	}

	var result pythonResult
	if err := json.Unmarshal(line, &result); err != nil {
		p.worker.stop()
		p.worker = nil
		return 0, fmt.Errorf("failed to decode python output %q: %w", strings.TrimSpace(string(line)), err)
	}
	if result.Error != "" {
		return 0, fmt.Errorf("python predictor: %s", result.Error)
	}
	if result.Prediction == nil {
		return 0, fmt.Errorf("python predictor returned no prediction")
	}
	return *result.Prediction, nil
}

// Close stops the worker. Predict restarts it if called afterwards.
func (p *PythonPredictor) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.worker == nil {
		return nil
	}
	err := p.worker.close()
	p.worker = nil
	return err
}

func (p *PythonPredictor) start() (*pythonWorker, error) {
	cmd := exec.Command(p.pythonBin, p.script, p.modelPath)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	w := &pythonWorker{
		cmd:    cmd,
		stdin:  stdin,
		lines:  make(chan []byte),
		stderr: &tailBuffer{max: stderrTail},
	}
	cmd.Stderr = w.stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start python worker: %w", err)
	}
	go w.readLines(stdout)

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	line, err := w.readLine(ctx)
	if err != nil {
		w.stop()
		return nil, fmt.Errorf("python worker did not become ready: %w", err)
	}
	var hello pythonResult
	if err := json.Unmarshal(line, &hello); err != nil || !hello.Ready {
		w.stop()
		return nil, fmt.Errorf("python worker did not become ready: unexpected output %q", strings.TrimSpace(string(line)))
	}

	logger.Info().Str("script", p.script).Str("model", p.modelPath).Int("pid", cmd.Process.Pid).Msg("Python worker ready")
	return w, nil
}

type pythonWorker struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	lines   chan []byte
	stderr  *tailBuffer
	exitErr error
}

// readLines owns stdout. It waits for the process once stdout closes, so
// stderr is complete by the time lines is closed.
func (w *pythonWorker) readLines(stdout io.Reader) {
	sc := bufio.NewScanner(stdout)
	sc.Buffer(make([]byte, 64<<10), 1<<20)
	for sc.Scan() {
		w.lines <- append([]byte(nil), sc.Bytes()...)
	}
	w.exitErr = w.cmd.Wait()
	close(w.lines)
}

func (w *pythonWorker) readLine(ctx context.Context) ([]byte, error) {
	select {
	case line, ok := <-w.lines:
		if !ok {
			return nil, fmt.Errorf("%w: %v, output: %s", ErrWorkerStopped, w.exitErr, w.stderr.String())
		}
		return line, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrWorkerStopped, ctx.Err())
	}
}

func (w *pythonWorker) roundTrip(ctx context.Context, request []byte) ([]byte, error) {
	if _, err := w.stdin.Write(request); err != nil {
		return nil, fmt.Errorf("%w: %v, output: %s", ErrWorkerStopped, err, w.stderr.String())
	}
	return w.readLine(ctx)
}

// stop kills the process and drains anything it still writes.
func (w *pythonWorker) stop() {
	_ = w.cmd.Process.Kill()
	go func() {
		for range w.lines {
		}
	}()
}

// close asks the worker to exit by closing stdin, killing it after a grace period.
func (w *pythonWorker) close() error {
	w.stdin.Close()
	timer := time.NewTimer(closeGrace)
	defer timer.Stop()
	for {
		select {
		case _, ok := <-w.lines:
			if !ok {
				return nil
			}
		case <-timer.C:
			w.stop()
			return fmt.Errorf("%w: killed after %v", ErrWorkerStopped, closeGrace)
		}
	}
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	mu  sync.Mutex
	max int
	buf []byte
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.max; over > 0 {
		b.buf = b.buf[over:]
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.TrimSpace(string(b.buf))
}
