// Package glsl holds the demo's shader sources and the preprocessing
// applied before compilation.
package glsl

// LitVertex transforms positions and passes the tangent frame to LitFragment.
// Defining HAS_TANGENTS enables the tangent and texcoord attributes.
const LitVertex = `#version 410 core
layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec3 aNormal;
#ifdef HAS_TANGENTS
layout(location = 2) in vec4 aTangent;
layout(location = 3) in vec2 aTexCoord;
#endif

uniform mat4 uViewProj;
uniform mat4 uModel;
uniform mat3 uNormalMatrix;

out vec3 vWorldPos;
out vec3 vNormal;
out vec4 vTangent;
out vec2 vTexCoord;

void main() {
    vec4 world = uModel * vec4(aPosition, 1.0);
    vWorldPos = world.xyz;
    vNormal = uNormalMatrix * aNormal;
#ifdef HAS_TANGENTS
    vTangent = vec4(mat3(uModel) * aTangent.xyz, aTangent.w);
    vTexCoord = aTexCoord;
#else
    vTangent = vec4(mat3(uModel) * vec3(1.0, 0.0, 0.0), 1.0);
    vTexCoord = aPosition.xz * 0.5 + 0.5;
#endif
    gl_Position = uViewProj * world;
}
`

// LitFragment is Blinn-Phong with one directional light, MAX_POINT_LIGHTS
// point lights and optional diffuse and normal maps.
const LitFragment = `#version 410 core
in vec3 vWorldPos;
in vec3 vNormal;
in vec4 vTangent;
in vec2 vTexCoord;

uniform vec3 uCameraPos;
uniform vec3 uSunDir;
uniform vec3 uSunColor;
uniform vec3 uAmbient;

uniform vec3 uAlbedo;
uniform vec3 uSpecular;
uniform float uShininess;
uniform float uAlpha;

uniform bool uUseDiffuse;
uniform sampler2D uDiffuse;
uniform bool uUseNormalMap;
uniform sampler2D uNormalMap;

uniform int uLightCount;
uniform vec3 uLightPos[MAX_POINT_LIGHTS];
uniform vec3 uLightColor[MAX_POINT_LIGHTS];
uniform float uLightRange[MAX_POINT_LIGHTS];

out vec4 FragColor;

vec3 shade(vec3 n, vec3 l, vec3 v, vec3 color, vec3 albedo) {
    float diff = max(dot(n, l), 0.0);
    vec3 h = normalize(l + v);
    float spec = diff > 0.0 ? pow(max(dot(n, h), 0.0), uShininess) : 0.0;
    return color * (albedo * diff + uSpecular * spec);
}

void main() {
    vec3 n = normalize(vNormal);
    if (uUseNormalMap) {
        vec3 t = normalize(vTangent.xyz - n * dot(n, vTangent.xyz));
        vec3 b = cross(n, t) * vTangent.w;
        vec3 m = texture(uNormalMap, vTexCoord).xyz * 2.0 - 1.0;
        n = normalize(mat3(t, b, n) * m);
    }

    vec3 albedo = uAlbedo;
    if (uUseDiffuse) {
        albedo *= texture(uDiffuse, vTexCoord).rgb;
    }

    vec3 v = normalize(uCameraPos - vWorldPos);
    vec3 color = uAmbient * albedo + shade(n, normalize(uSunDir), v, uSunColor, albedo);

    for (int i = 0; i < uLightCount; i++) {
        vec3 d = uLightPos[i] - vWorldPos;
        float dist = length(d);
        float atten = clamp(1.0 - dist / uLightRange[i], 0.0, 1.0);
        color += atten * shade(n, d / max(dist, 1e-4), v, uLightColor[i], albedo);
    }

    FragColor = vec4(color, uAlpha);
}
`
