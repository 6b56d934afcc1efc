package engine

// Shader sources for the image plane and the post-processing pass

// Vertex shader for the image plane
const planeVertexShaderSource = `
#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aTexCoord;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;

out vec2 vUv;

void main() {
    vUv = aTexCoord;
    gl_Position = uProjection * uView * uModel * vec4(aPos, 1.0);
}
`

// Fragment shader for the image plane: noise-driven blur and displacement,
// suppressed inside the reveal radius around the pointer
const planeFragmentShaderSource = `
#version 410 core
in vec2 vUv;
out vec4 FragColor;

uniform sampler2D uImg;
uniform vec2 uMouse;
uniform vec2 uResolution;
uniform float uTime;
uniform float uRadius;
uniform float uBlur;
uniform float uBlurIntensity;
uniform float uThreshold;
uniform float uSoftness;
uniform float uNoise1Size;
uniform float uNoise1Freq;
uniform float uNoise2Size;
uniform float uNoise2Freq;
uniform float uNoise2Factor;
uniform float uNoise3Size;
uniform float uNoise3Freq;
uniform float uNoise3Factor;

float hash(vec2 p) {
    return fract(sin(dot(p, vec2(12.9898, 78.233))) * 43758.5453);
}

float valueNoise(vec2 p) {
    vec2 i = floor(p);
    vec2 f = fract(p);
    vec2 u = f * f * (3.0 - 2.0 * f);
    return mix(
        mix(hash(i), hash(i + vec2(1.0, 0.0)), u.x),
        mix(hash(i + vec2(0.0, 1.0)), hash(i + vec2(1.0, 1.0)), u.x),
        u.y);
}

float layeredNoise(vec2 uv, float t) {
    float n = valueNoise(uv * uNoise1Size + t * uNoise1Freq);
    n += uNoise2Factor * valueNoise(uv * uNoise2Size + t * uNoise2Freq);
    n += uNoise3Factor * valueNoise(uv * uNoise3Size + t * uNoise3Freq);
    return n / (1.0 + uNoise2Factor + uNoise3Factor);
}

float revealAmount(vec2 uv, float n) {
    if (uRadius <= 0.0) {
        return 0.0;
    }
    vec2 aspect = vec2(uResolution.x / max(uResolution.y, 1.0), 1.0);
    float d = length((uv - uMouse) * aspect);
    d += (n - 0.5) * uRadius * 0.5;
    return 1.0 - smoothstep(uRadius * 0.5, uRadius, d);
}

void main() {
    float n = layeredNoise(vUv, uTime);

    float strength = smoothstep(uThreshold - uSoftness * 0.5, uThreshold + uSoftness * 0.5, n);
    float effect = strength * (1.0 - revealAmount(vUv, n));

    vec2 uv = vUv + vec2(n - 0.5, 0.5 - n) * 0.02 * effect;

    vec2 texel = 1.0 / max(uResolution, vec2(1.0));
    float radius = uBlur * uBlurIntensity * effect;

    vec4 color = vec4(0.0);
    float total = 0.0;
    for (int x = -3; x <= 3; x++) {
        for (int y = -3; y <= 3; y++) {
            vec2 o = vec2(float(x), float(y)) / 3.0;
            float w = exp(-dot(o, o) * 2.0);
            color += texture(uImg, uv + o * radius * texel) * w;
            total += w;
        }
    }

    FragColor = color / total;
}
`

// Vertex shader for the fullscreen post-processing quad
const postVertexShaderSource = `
#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aTexCoord;

out vec2 vUv;

void main() {
    gl_Position = vec4(aPos, 1.0);
    vUv = aTexCoord;
}
`

// Fragment shader for film noise and vignette
const postFragmentShaderSource = `
#version 410 core
in vec2 vUv;
out vec4 FragColor;

uniform sampler2D uScene;
uniform sampler2D uGrain;
uniform vec2 uGrainScale;
uniform float uTime;
uniform float uNoiseOpacity;
uniform float uVignetteOffset;
uniform float uVignetteDarkness;

float hash(vec2 p) {
    return fract(sin(dot(p, vec2(12.9898, 78.233))) * 43758.5453);
}

void main() {
    vec4 color = texture(uScene, vUv);

    // grain jumps to a new tile offset 24 times a second
    float frame = floor(uTime * 24.0);
    vec2 jitter = vec2(hash(vec2(frame, 1.0)), hash(vec2(frame, 2.0)));
    float g = texture(uGrain, vUv * uGrainScale + jitter).r;

    // screen blend
    vec3 screened = 1.0 - (1.0 - color.rgb) * (1.0 - vec3(g));
    color.rgb = mix(color.rgb, screened, uNoiseOpacity);

    vec2 coord = (vUv - 0.5) * vec2(uVignetteOffset);
    color.rgb = mix(color.rgb, vec3(1.0 - uVignetteDarkness), dot(coord, coord));

    FragColor = color;
}
`
