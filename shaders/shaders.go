package shaders

import _ "embed"

//go:embed shading.wgsl
var ShadingWGSL string
