package utils

import (
	"fmt"
	"strings"

	"github.com/avct/uasurfer"
)

type UserAgentInfo struct {
	Device  string
	OS      string
	Browser string
	Bot     bool
	Known   bool
}

func ParseUserAgent(uaString string) *UserAgentInfo {
	ua := uasurfer.Parse(uaString)

	device := "Unknown"
	switch ua.DeviceType {
	case uasurfer.DeviceComputer:
		device = "Computer"
	case uasurfer.DeviceTablet:
		device = "Tablet"
	case uasurfer.DevicePhone:
		device = "Phone"
	case uasurfer.DeviceConsole:
		device = "Console"
	case uasurfer.DeviceWearable:
		device = "Wearable"
	case uasurfer.DeviceTV:
		device = "TV"
	}

	return &UserAgentInfo{
		Device:  device,
		OS:      fmt.Sprintf("%s %d.%d", ua.OS.Name.String(), ua.OS.Version.Major, ua.OS.Version.Minor),
		Browser: fmt.Sprintf("%s %d.%d", ua.Browser.Name.String(), ua.Browser.Version.Major, ua.Browser.Version.Minor),
		Bot:     ua.IsBot(),
		Known:   ua.Browser.Name != uasurfer.BrowserUnknown && ua.DeviceType != uasurfer.DeviceUnknown,
	}
}

// ClassifyUserAgent names what is suspicious about a user agent, or returns
// an empty string when it looks like a regular client.
func ClassifyUserAgent(uaString string) string {
	if strings.TrimSpace(uaString) == "" {
		return "missing_user_agent"
	}
	info := ParseUserAgent(uaString)
	switch {
	case info.Bot:
		return "bot_user_agent"
	case !info.Known:
		return "unrecognized_user_agent"
	}
	return ""
}
