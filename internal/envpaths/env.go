package envpaths

// Environment variables consulted during discovery.
const (
	AndroidHome              = "ANDROID_HOME"
	AndroidSDKRoot           = "ANDROID_SDK_ROOT"
	AndroidBuildToolsVersion = "ANDROID_BUILD_TOOLS_VERSION"
	AndroidPlatform          = "ANDROID_PLATFORM"
	AndroidAPILevel          = "ANDROID_API_LEVEL"
	AndroidSDKVersion        = "ANDROID_SDK_VERSION"
	AndroidSDKExtension      = "ANDROID_SDK_EXTENSION"
	AndroidD8Jar             = "ANDROID_D8_JAR"
	AndroidJarEnv            = "ANDROID_JAR"
	JavaHomeEnv              = "JAVA_HOME"
	JavaSourceVersionEnv     = "JAVA_SOURCE_VERSION"
	JavaTargetVersionEnv     = "JAVA_TARGET_VERSION"
	LocalAppData             = "LOCALAPPDATA"
)

// platformEnvVars are treated identically; the first non-empty one wins.
var platformEnvVars = []string{AndroidPlatform, AndroidAPILevel, AndroidSDKVersion}
