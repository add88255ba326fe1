// video_crt_shader.go - Kage CRT post-processing shader

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/CartridgePlayer
License: GPLv3 or later
*/

package main

// Uniform names shared by every backend that runs crtShaderSrc.
const (
	UniformScreenResolution  = "ScreenResolution"
	UniformScanLineOpacity   = "ScanLineOpacity"
	UniformVignetteOpacity   = "VignetteOpacity"
	UniformBrightness        = "Brightness"
	UniformVignetteRoundness = "VignetteRoundness"
)

// crtShaderSrc samples image 0 (the offscreen color target) and applies
// vignette, horizontal and vertical scanlines and a brightness gain.
const crtShaderSrc = `
package main

var ScreenResolution vec2
var ScanLineOpacity vec2
var VignetteOpacity float
var Brightness float
var VignetteRoundness float

func scanLineIntensity(uv float, resolution float, opacity float) float {
	var intensity float
	intensity = sin(uv * resolution * 3.14159265 * 2.0)
	intensity = ((0.5 * intensity) + 0.5) * 0.9 + 0.1
	return pow(intensity, opacity)
}

func vignetteIntensity(uv vec2, resolution vec2, opacity float, roundness float) float {
	var intensity float
	intensity = uv.x * uv.y * (1.0 - uv.x) * (1.0 - uv.y)
	return clamp(pow((resolution.x / roundness) * intensity, opacity), 0.0, 1.0)
}

func Fragment(position vec4, texCoord vec2, color vec4) vec4 {
	var uv vec2
	uv = (texCoord - imageSrc0Origin()) / imageSrc0Size()

	var col vec4
	col = imageSrc0At(texCoord)
	col.rgb = col.rgb * vignetteIntensity(uv, ScreenResolution, VignetteOpacity, VignetteRoundness)
	col.rgb = col.rgb * scanLineIntensity(uv.x, ScreenResolution.y, ScanLineOpacity.x)
	col.rgb = col.rgb * scanLineIntensity(uv.y, ScreenResolution.x, ScanLineOpacity.y)
	col.rgb = col.rgb * Brightness
	return col
}
`
