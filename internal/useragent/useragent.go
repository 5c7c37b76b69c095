// Package useragent classifies raw User-Agent strings from click records
// into device, browser and operating system labels.
//
// Classification is a case-insensitive substring search evaluated in a
// fixed priority order, so ambiguous tokens always resolve the same way:
// a Chrome-on-Android tablet string is Mobile because the mobile/android
// check precedes the tablet check.
package useragent

import (
	"strings"

	uaparser "github.com/mssola/user_agent"
)

// Unknown is returned for every label that cannot be determined.
const Unknown = "Unknown"

// Device labels.
const (
	DeviceMobile  = "Mobile"
	DeviceTablet  = "Tablet"
	DeviceDesktop = "Desktop"
)

// Browser labels.
const (
	BrowserFirefox = "Firefox"
	BrowserChrome  = "Chrome"
	BrowserSafari  = "Safari"
	BrowserEdge    = "Edge"
	BrowserOpera   = "Opera"
	BrowserIE      = "Internet Explorer"
)

// Operating system labels.
const (
	OSWindows = "Windows"
	OSMacOS   = "macOS"
	OSLinux   = "Linux"
	OSAndroid = "Android"
	OSIOS     = "iOS"
)

// Info holds the three independent labels of a User-Agent.
type Info struct {
	Device  string
	Browser string
	OS      string
}

// Summary renders the label pair shown in click history tables.
func (i Info) Summary() string {
	return i.Browser + " on " + i.OS
}

// IsMobile reports whether the device label is Mobile.
func (i Info) IsMobile() bool {
	return i.Device == DeviceMobile
}

// Classify returns the labels for ua. An empty ua yields Unknown for all three.
func Classify(ua string) Info {
	return Info{
		Device:  Device(ua),
		Browser: Browser(ua),
		OS:      OperatingSystem(ua),
	}
}

// Device returns Mobile, Tablet, Desktop or Unknown.
func Device(ua string) string {
	if ua == "" {
		return Unknown
	}
	s := strings.ToLower(ua)

	switch {
	case containsAny(s, "mobile", "android", "iphone", "ipad"):
		return DeviceMobile
	case strings.Contains(s, "tablet"):
		return DeviceTablet
	default:
		return DeviceDesktop
	}
}

// Browser returns the browser family or Unknown.
func Browser(ua string) string {
	if ua == "" {
		return Unknown
	}
	s := strings.ToLower(ua)

	switch {
	case strings.Contains(s, "firefox"):
		return BrowserFirefox
	case strings.Contains(s, "chrome") && !strings.Contains(s, "edg"):
		return BrowserChrome
	case strings.Contains(s, "safari") && !strings.Contains(s, "chrome"):
		return BrowserSafari
	case strings.Contains(s, "edg"): // covers "edge" too
		return BrowserEdge
	case containsAny(s, "opera", "opr"):
		return BrowserOpera
	case containsAny(s, "msie", "trident"):
		return BrowserIE
	default:
		return Unknown
	}
}

// OperatingSystem returns the OS family or Unknown.
func OperatingSystem(ua string) string {
	if ua == "" {
		return Unknown
	}
	s := strings.ToLower(ua)

	switch {
	case strings.Contains(s, "windows"):
		return OSWindows
	case containsAny(s, "mac os", "macintosh", "darwin"):
		return OSMacOS
	case strings.Contains(s, "linux") && !strings.Contains(s, "android"):
		return OSLinux
	case strings.Contains(s, "android"):
		return OSAndroid
	case containsAny(s, "ios", "iphone", "ipad"):
		return OSIOS
	default:
		return Unknown
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Details extends Info with data only a full parser can extract.
type Details struct {
	Info
	BrowserVersion string
	Bot            bool
}

// Parse returns the labels of ua together with the browser version and
// bot flag reported by mssola/user_agent. The labels always come from Classify.
func Parse(ua string) Details {
	d := Details{Info: Classify(ua)}
	if ua == "" {
		return d
	}

	parsed := uaparser.New(ua)
	_, d.BrowserVersion = parsed.Browser()
	d.Bot = parsed.Bot()
	return d
}
