package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"opencraft/block"
	"opencraft/config"
	"opencraft/stream"
)

//go:embed shaders
var shaderFiles embed.FS

func init() {
	// GL calls must come from the thread that created the context.
	runtime.LockOSThread()
}

type viewer struct {
	cfg     config.Config
	log     *slog.Logger
	session *session
	cam     *camera
	target  glTarget
	hud     *hud

	blockProgram uint32
	atlas        uint32

	width, height int
	monitor       *glfw.Monitor
	showDebug     bool
	placing       block.Type
	lastClick     time.Time
}

func loadShader(name string, shaderType uint32) (uint32, error) {
	source, err := shaderFiles.ReadFile("shaders/" + name)
	if err != nil {
		return 0, err
	}
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(string(source) + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile %s: %s", name, strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func newProgram(vertexName, fragmentName string) (uint32, error) {
	vertexShader, err := loadShader(vertexName, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := loadShader(fragmentName, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vertexShader)
	gl.AttachShader(prog, fragmentShader)
	gl.LinkProgram(prog)
	gl.DetachShader(prog, vertexShader)
	gl.DetachShader(prog, fragmentShader)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		return 0, fmt.Errorf("link %s + %s failed", vertexName, fragmentName)
	}
	return prog, nil
}

func uniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (v *viewer) projection() mgl32.Mat4 {
	aspectRatio := float32(v.width) / float32(v.height)
	farClipPlane := float32(v.cfg.DrawRadius) * 1.5
	return mgl32.Perspective(mgl32.DegToRad(fieldOfView), aspectRatio, nearClipPlane, farClipPlane)
}

func runViewer(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	if cfg.Vsync {
		glfw.SwapInterval(1)
	}
	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	log.Info("opengl ready", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	v := &viewer{cfg: cfg, log: log, showDebug: true, placing: hotbar[0]}
	v.width, v.height = window.GetFramebufferSize()

	if v.blockProgram, err = newProgram("block.vert", "block.frag"); err != nil {
		return err
	}
	textProgram, err := newProgram("text.vert", "text.frag")
	if err != nil {
		return err
	}
	if v.hud, err = newHUD(textProgram); err != nil {
		return err
	}

	atlas := proceduralAtlas(cfg.Seed)
	if cfg.AtlasPath != "" {
		if atlas, err = loadAtlasImage(cfg.AtlasPath); err != nil {
			return err
		}
	}
	v.atlas = loadTextureAtlas(atlas)

	v.session = newSession(cfg, glDevice{}, log)
	defer v.session.close()
	v.cam = newCamera(v.session.spawn())

	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	window.SetKeyCallback(v.onKey)
	window.SetCursorPosCallback(v.onCursor)
	window.SetMouseButtonCallback(v.onMouseButton)
	window.SetFramebufferSizeCallback(v.onResize)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(skyColor.X(), skyColor.Y(), skyColor.Z(), 1)

	var (
		start         = time.Now()
		previousFrame = start
		lastHUD       time.Time
		frameCount    int
		fps           float64
	)
	for !window.ShouldClose() && ctx.Err() == nil {
		now := time.Now()
		deltaTime := float32(now.Sub(previousFrame).Seconds())
		previousFrame = now

		glfw.PollEvents()
		v.movement(window, deltaTime)
		v.session.stream.Tick(v.cam.position)

		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		v.drawWorld(float32(now.Sub(start).Seconds()))

		frameCount++
		if elapsed := now.Sub(lastHUD); elapsed >= hudInterval {
			fps = float64(frameCount) / elapsed.Seconds()
			frameCount = 0
			lastHUD = now
			if v.showDebug {
				if err := v.hud.update(v.debugLines(fps)); err != nil {
					log.Warn("hud", "error", err)
				}
			}
		}
		if v.showDebug {
			v.hud.draw(v.width, v.height)
		}
		window.SwapBuffers()
	}
	log.Info("viewer closed", "stats", v.session.stream.Stats())
	return nil
}

func (v *viewer) drawWorld(seconds float32) {
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	gl.UseProgram(v.blockProgram)
	viewProj := v.projection().Mul4(v.cam.view())
	gl.UniformMatrix4fv(uniform(v.blockProgram, "u_ViewProj"), 1, false, &viewProj[0])
	gl.Uniform1f(uniform(v.blockProgram, "u_Time"), seconds)
	gl.Uniform3f(uniform(v.blockProgram, "u_Sky"), skyColor.X(), skyColor.Y(), skyColor.Z())
	gl.Uniform1f(uniform(v.blockProgram, "u_FogEnd"), float32(v.cfg.DrawRadius))
	gl.Uniform1i(uniform(v.blockProgram, "u_Atlas"), 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, v.atlas)

	v.target.begin()
	v.session.draw(v.cam.position, v.cfg.DrawRadius, &v.target)
	v.target.end()
}

func (v *viewer) debugLines(fps float64) []string {
	st := v.session.stream.Stats()
	p := v.cam.position
	region := stream.RegionOf(p)
	rx, rz := region.Unpack()
	lines := []string{
		fmt.Sprintf("FPS: %.1f", fps),
		fmt.Sprintf("XYZ: %.1f / %.1f / %.1f", p.X(), p.Y(), p.Z()),
		fmt.Sprintf("Region: %d, %d (%d loaded)", rx, rz, st.Regions),
		fmt.Sprintf("Chunks: %d  uploads: %d  errors: %d", st.Chunks, st.Uploads, st.UploadErrors),
		fmt.Sprintf("Pipeline: %d in flight  %d done  %d refused", st.Pipeline.InFlight, st.Pipeline.Done, st.Pipeline.Refused),
		fmt.Sprintf("Backlog: %d fill  %d mesh  retries: %d  dropped: %d", st.FillBacklog, st.MeshBacklog, st.Retries, st.Dropped),
		fmt.Sprintf("Placing: %s", v.placing),
	}
	if hit, ok := v.pick(); ok {
		lines = append(lines, fmt.Sprintf("Looking at: %s (%d, %d, %d) %s", hit.Block, hit.X, hit.Y, hit.Z, hit.Face))
	}
	return lines
}

func main() {
	var (
		configPath string
		headless   bool
		ticks      int
		timeout    time.Duration
		seed       int64
		workers    int
	)
	flag.StringVar(&configPath, "config", "", "YAML config file")
	flag.BoolVar(&headless, "headless", false, "stream without a window and log the result")
	flag.IntVar(&ticks, "ticks", 120, "headless: ticks to walk before settling")
	flag.DurationVar(&timeout, "timeout", time.Minute, "headless: how long to wait for streaming to settle")
	flag.Int64Var(&seed, "seed", 0, "world seed (overrides the config)")
	flag.IntVar(&workers, "workers", 0, "generation workers (overrides the config)")
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			slog.Error("load config", "error", err)
			os.Exit(1)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Seed = seed
		case "workers":
			cfg.Workers = workers
			cfg.MaxInFlight = workers * 8
		}
	})

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	run := func() error { return runViewer(ctx, cfg, log) }
	if headless {
		run = func() error { return runHeadless(ctx, cfg, ticks, timeout, log) }
	}
	if err := run(); err != nil {
		log.Error("opencraft", "error", err)
		cancel()
		os.Exit(1)
	}
}
