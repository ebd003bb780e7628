// main is the entry point for the sprintcast CLI.
package main

import (
	"github.com/huangsam/sprintcast/cmd"
	"github.com/huangsam/sprintcast/internal/contract"
	"github.com/huangsam/sprintcast/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()
	iocache.CloseStores()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	if err != nil {
		contract.LogFatal("Error starting CLI", err)
	}
}
