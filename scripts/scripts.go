package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

func must(err error) {
	if err != nil {
		fmt.Println(err)
		panic(err)
	}
}

type SemanticVersion struct {
	major int
	minor int
	patch int
}

var semverRe = regexp.MustCompile(`^v(\d+)\.(\d+)\.(\d+)$`)

func ParseSemVer(s string) (SemanticVersion, error) {
	m := semverRe.FindStringSubmatch(s)
	if len(m) != 4 {
		return SemanticVersion{}, fmt.Errorf("invalid semantic version: '%s'", s)
	}

	var sv SemanticVersion
	var err error
	if sv.major, err = strconv.Atoi(m[1]); err != nil {
		return sv, err
	}
	if sv.minor, err = strconv.Atoi(m[2]); err != nil {
		return sv, err
	}
	if sv.patch, err = strconv.Atoi(m[3]); err != nil {
		return sv, err
	}

	return sv, nil
}

func (sv SemanticVersion) NextMajor() SemanticVersion {
	return SemanticVersion{major: sv.major + 1}
}

func (sv SemanticVersion) NextMinor() SemanticVersion {
	return SemanticVersion{major: sv.major, minor: sv.minor + 1}
}

func (sv SemanticVersion) NextPatch() SemanticVersion {
	return SemanticVersion{major: sv.major, minor: sv.minor, patch: sv.patch + 1}
}

func (sv SemanticVersion) String() string {
	return fmt.Sprintf("v%d.%d.%d", sv.major, sv.minor, sv.patch)
}

var (
	actionFlag  string
	versionFlag string
)

func main() {
	flag.StringVar(&actionFlag, "action", "", "Choose your action")
	flag.StringVar(&versionFlag, "version", "", "Used with release; a bump (major, minor, patch) or an exact version (e.g. v1.2.3)")

	flag.Parse()

	switch actionFlag {
	case "":
		fmt.Println("An action is required")
		os.Exit(1)

	case "release":
		release()

	default:
		fmt.Printf("Invalid action: '%s'\n", actionFlag)
		os.Exit(1)
	}
}

func release() {
	fmt.Println("Cutting new release")

	gitDescribe, err := exec.Command("git", "describe", "--abbrev=0").Output()
	must(err)
	currentVersionStr := strings.TrimSpace(string(gitDescribe))
	fmt.Println("Current version:", currentVersionStr)

	currentVersion, err := ParseSemVer(currentVersionStr)
	must(err)

	var newVersion SemanticVersion
	switch versionFlag {
	case "":
		fmt.Println("--version is required with release")
		os.Exit(1)

	case "major":
		newVersion = currentVersion.NextMajor()
	case "minor":
		newVersion = currentVersion.NextMinor()
	case "patch":
		newVersion = currentVersion.NextPatch()
	default:
		newVersion, err = ParseSemVer(versionFlag)
		must(err)
	}

	fmt.Println("New version:", newVersion)

	cwd, err := os.Getwd()
	must(err)

	// Cross-compiling needs cgo for the speaker, hence the builder image
	// with the arm toolchains installed
	mountArg := fmt.Sprintf(`type=bind,source=%s,target=/buzzd`, cwd)
	buildCmd := exec.Command("docker", "run",
		"--mount", mountArg,
		"--interactive",
		"--workdir", "/buzzd",
		"xbuzzd",
		"bash", "/buzzd/scripts/make.sh", newVersion.String(),
	)
	buildCmd.Stdout = os.Stdout
	buildCmd.Stderr = os.Stderr
	must(buildCmd.Run())

	releaseCmd := exec.Command(
		"gh", "release", "create",
		newVersion.String(),
		"--generate-notes",
		"./dist/*.tgz",
	)
	releaseCmd.Stdout = os.Stdout
	releaseCmd.Stderr = os.Stderr
	must(releaseCmd.Run())
}
