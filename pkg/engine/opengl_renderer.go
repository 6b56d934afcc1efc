package engine

import (
	"fmt"
	"image"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"reveal/internal/logger"
	"reveal/internal/noise"
	"reveal/pkg/config"
)

var (
	_ Renderer    = (*OpenGLRenderer)(nil)
	_ UniformSink = (*OpenGLRenderer)(nil)
)

// OpenGLRenderer draws the image plane into an offscreen framebuffer and
// composites it to the window through the post-processing shader
type OpenGLRenderer struct {
	logger     *logger.Logger
	post       config.PostConfig
	clearColor [3]float32
	width      int
	height     int

	// Image plane
	planeProgram uint32
	planeVAO     uint32
	planeVBO     uint32
	planeEBO     uint32
	imageTexture uint32

	// Post-processing
	postProgram   uint32
	quadVAO       uint32
	quadVBO       uint32
	fbo           uint32
	rbo           uint32
	screenTexture uint32
	grainTexture  uint32
	grainSize     int

	usePostProcess bool

	// uniform locations per program, resolved on first use
	current   uint32
	locations map[uint32]map[string]int32
	missing   map[uniformKey]bool
}

// uniformKey names a uniform within one program
type uniformKey struct {
	program uint32
	name    string
}

// NewOpenGLRenderer creates the renderer. A GL context must be current
// and gl.Init must have run.
func NewOpenGLRenderer(cfg *config.Config, asset *ImageAsset, log *logger.Logger, width, height int) (*OpenGLRenderer, error) {
	clearColor, err := config.ParseColor(cfg.Post.ClearColor)
	if err != nil {
		return nil, err
	}

	r := &OpenGLRenderer{
		logger:         log,
		post:           cfg.Post,
		clearColor:     clearColor,
		width:          width,
		height:         height,
		grainSize:      cfg.Post.GrainSize,
		usePostProcess: cfg.Post.Enabled,
		locations:      make(map[uint32]map[string]int32),
		missing:        make(map[uniformKey]bool),
	}

	if err := r.initOpenGL(); err != nil {
		r.Close()
		return nil, err
	}

	r.imageTexture = uploadTexture(asset.Pixels, gl.LINEAR, gl.CLAMP_TO_EDGE)
	r.grainTexture = uploadGray(noise.GrainImage(r.grainSize, 1))

	if err := r.setupFramebuffer(); err != nil {
		r.Close()
		return nil, err
	}

	// inactive uniforms are stripped by the driver
	for _, name := range uniformNames {
		if gl.GetUniformLocation(r.planeProgram, gl.Str(name+"\x00")) < 0 {
			log.Warnf("Uniform %s is not active in the plane shader", name)
		}
	}

	return r, nil
}

// initOpenGL compiles the programs and creates the geometry
func (r *OpenGLRenderer) initOpenGL() error {
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)

	var err error
	if r.planeProgram, err = createShaderProgram(planeVertexShaderSource, planeFragmentShaderSource); err != nil {
		return fmt.Errorf("plane shader: %w", err)
	}
	if r.postProgram, err = createShaderProgram(postVertexShaderSource, postFragmentShaderSource); err != nil {
		return fmt.Errorf("post shader: %w", err)
	}

	r.setupPlane()
	r.setupScreenQuad()
	return nil
}

// setupPlane creates a unit quad centred on the origin; the model matrix
// scales it to the fitted plane size
func (r *OpenGLRenderer) setupPlane() {
	vertices := []float32{
		// Position      // UV
		-0.5, -0.5, 0.0, 0.0, 0.0,
		0.5, -0.5, 0.0, 1.0, 0.0,
		0.5, 0.5, 0.0, 1.0, 1.0,
		-0.5, 0.5, 0.0, 0.0, 1.0,
	}
	indices := []uint32{0, 1, 2, 2, 3, 0}

	gl.GenVertexArrays(1, &r.planeVAO)
	gl.BindVertexArray(r.planeVAO)

	gl.GenBuffers(1, &r.planeVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.planeVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &r.planeEBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.planeEBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	vertexLayout()
	gl.BindVertexArray(0)
}

// setupScreenQuad creates a full-screen quad for post-processing
func (r *OpenGLRenderer) setupScreenQuad() {
	vertices := []float32{
		// Position     // UV
		-1.0, -1.0, 0.0, 0.0, 0.0,
		1.0, -1.0, 0.0, 1.0, 0.0,
		1.0, 1.0, 0.0, 1.0, 1.0,
		-1.0, 1.0, 0.0, 0.0, 1.0,
	}

	gl.GenVertexArrays(1, &r.quadVAO)
	gl.GenBuffers(1, &r.quadVBO)
	gl.BindVertexArray(r.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	vertexLayout()
	gl.BindVertexArray(0)
}

// vertexLayout describes the interleaved position/uv layout of the bound VBO
func vertexLayout() {
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 5*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, 5*4, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
}

// setupFramebuffer initializes the offscreen target for post-processing
func (r *OpenGLRenderer) setupFramebuffer() error {
	gl.GenFramebuffers(1, &r.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, r.fbo)

	gl.GenTextures(1, &r.screenTexture)
	gl.BindTexture(gl.TEXTURE_2D, r.screenTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(r.width), int32(r.height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, r.screenTexture, 0)

	gl.GenRenderbuffers(1, &r.rbo)
	gl.BindRenderbuffer(gl.RENDERBUFFER, r.rbo)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, int32(r.width), int32(r.height))
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, r.rbo)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("framebuffer not complete: 0x%x", status)
	}
	return nil
}

// uploadTexture creates an RGBA texture from img
func uploadTexture(img *image.NRGBA, filter int32, wrap int32) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA,
		int32(img.Bounds().Dx()),
		int32(img.Bounds().Dy()),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(img.Pix),
	)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	return tex
}

// uploadGray creates a repeating single-channel texture
func uploadGray(img *image.Gray) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.R8,
		int32(img.Bounds().Dx()),
		int32(img.Bounds().Dy()),
		0,
		gl.RED,
		gl.UNSIGNED_BYTE,
		gl.Ptr(img.Pix),
	)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	return tex
}

// createShaderProgram compiles and links a shader program from source
func createShaderProgram(vertexSource, fragmentSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}

	fragmentShader, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	// shaders are owned by the program after linking
	gl.DetachShader(program, vertexShader)
	gl.DetachShader(program, fragmentShader)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, fmt.Errorf("shader program linking failed: %s", strings.TrimRight(log, "\x00"))
	}

	return program, nil
}

// compileShader compiles a shader from source
func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source + "\x00")
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

		return 0, fmt.Errorf("shader compilation failed: %s", strings.TrimRight(log, "\x00"))
	}

	return shader, nil
}

// useProgram binds program and makes it the target of SetFloat/SetVec2
func (r *OpenGLRenderer) useProgram(program uint32) {
	gl.UseProgram(program)
	r.current = program
}

// location returns the cached uniform location in the bound program
func (r *OpenGLRenderer) location(name string) int32 {
	locs, ok := r.locations[r.current]
	if !ok {
		locs = make(map[string]int32)
		r.locations[r.current] = locs
	}
	loc, ok := locs[name]
	if !ok {
		loc = gl.GetUniformLocation(r.current, gl.Str(name+"\x00"))
		locs[name] = loc
		if loc < 0 && r.firstMiss(r.current, name) {
			r.logger.Debugf("Uniform %s has no location in program %d", name, r.current)
		}
	}
	return loc
}

// firstMiss records a uniform without a location and reports whether it
// is the first report for that program
func (r *OpenGLRenderer) firstMiss(program uint32, name string) bool {
	key := uniformKey{program: program, name: name}
	if r.missing[key] {
		return false
	}
	r.missing[key] = true
	return true
}

// SetFloat sets a float uniform on the bound program
func (r *OpenGLRenderer) SetFloat(name string, v float32) {
	gl.Uniform1f(r.location(name), v)
}

// SetVec2 sets a vec2 uniform on the bound program
func (r *OpenGLRenderer) SetVec2(name string, v mgl32.Vec2) {
	gl.Uniform2f(r.location(name), v.X(), v.Y())
}

func (r *OpenGLRenderer) setMat4(name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(r.location(name), 1, false, &m[0])
}

func (r *OpenGLRenderer) setInt(name string, v int32) {
	gl.Uniform1i(r.location(name), v)
}

// UpdateResolution resizes the offscreen target
func (r *OpenGLRenderer) UpdateResolution(width, height int) {
	if width <= 0 || height <= 0 || (r.width == width && r.height == height) {
		return
	}
	r.width = width
	r.height = height

	gl.BindTexture(gl.TEXTURE_2D, r.screenTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)

	gl.BindRenderbuffer(gl.RENDERBUFFER, r.rbo)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, int32(width), int32(height))
}

// TogglePostProcessing enables or disables post-processing effects
func (r *OpenGLRenderer) TogglePostProcessing() bool {
	r.usePostProcess = !r.usePostProcess
	return r.usePostProcess
}

// Render draws one frame to the default framebuffer
func (r *OpenGLRenderer) Render(frame *Frame) {
	r.UpdateResolution(frame.Width, frame.Height)

	if r.usePostProcess {
		gl.BindFramebuffer(gl.FRAMEBUFFER, r.fbo)
	}

	gl.Viewport(0, 0, int32(frame.Width), int32(frame.Height))
	gl.ClearColor(r.clearColor[0], r.clearColor[1], r.clearColor[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.renderPlane(frame)

	if r.usePostProcess {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, int32(frame.Width), int32(frame.Height))
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		r.renderPostProcess(frame)
	}
}

// renderPlane draws the distorted image plane
func (r *OpenGLRenderer) renderPlane(frame *Frame) {
	r.useProgram(r.planeProgram)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.imageTexture)
	r.setInt("uImg", 0)

	r.setMat4("uModel", frame.Model)
	r.setMat4("uView", frame.View)
	r.setMat4("uProjection", frame.Projection)
	frame.Uniforms.Upload(r)

	gl.BindVertexArray(r.planeVAO)
	gl.DrawElements(gl.TRIANGLES, 6, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// renderPostProcess composites the offscreen image with grain and vignette
func (r *OpenGLRenderer) renderPostProcess(frame *Frame) {
	r.useProgram(r.postProgram)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.screenTexture)
	r.setInt("uScene", 0)

	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, r.grainTexture)
	r.setInt("uGrain", 1)

	r.SetVec2("uGrainScale", mgl32.Vec2{
		float32(frame.Width) / float32(r.grainSize),
		float32(frame.Height) / float32(r.grainSize),
	})
	r.SetFloat("uTime", frame.Elapsed)
	r.SetFloat("uNoiseOpacity", r.post.NoiseOpacity)
	r.SetFloat("uVignetteOffset", r.post.VignetteOffset)
	r.SetFloat("uVignetteDarkness", r.post.VignetteDarkness)

	gl.Disable(gl.DEPTH_TEST)
	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLE_FAN, 0, 4)
	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)

	gl.ActiveTexture(gl.TEXTURE0)
}

// Close releases all OpenGL resources
func (r *OpenGLRenderer) Close() {
	gl.DeleteVertexArrays(1, &r.planeVAO)
	gl.DeleteBuffers(1, &r.planeVBO)
	gl.DeleteBuffers(1, &r.planeEBO)
	gl.DeleteVertexArrays(1, &r.quadVAO)
	gl.DeleteBuffers(1, &r.quadVBO)
	gl.DeleteTextures(1, &r.imageTexture)
	gl.DeleteTextures(1, &r.grainTexture)
	gl.DeleteTextures(1, &r.screenTexture)
	gl.DeleteRenderbuffers(1, &r.rbo)
	gl.DeleteFramebuffers(1, &r.fbo)
	gl.DeleteProgram(r.planeProgram)
	gl.DeleteProgram(r.postProgram)
}
