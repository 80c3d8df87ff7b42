// Copyright 2023-2024 daviszhen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.uber.org/zap"

	"github.com/daviszhen/colvec/pkg/compute"
	"github.com/daviszhen/colvec/pkg/util"
)

func init() {
	cobra.OnInitialize(loadConfig)
	initQueryCmd()
}

var testerCfg = &util.Config{}

///root cmd

var info = "tester"
var RootCmd = &cobra.Command{
	Use:          "tester",
	Short:        info,
	Long:         info,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("use tester --help or -h")
	},
}

func initDebugOptions() {
	testerCfg.Debug.MaxOutputRowCount = viper.GetInt("debug.maxOutputRowCount")
	testerCfg.Debug.PrintResult = viper.GetBool("debug.printResult")
	testerCfg.Debug.Explain = viper.GetBool("debug.explain")
}

//query cmd

var queryInfo = "run query on foreign data"
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: queryInfo,
	Long:  queryInfo,
	RunE: func(cmd *cobra.Command, args []string) error {
		initQueryCfg()
		return compute.Run(testerCfg)
	},
}

func initQueryCfg() {
	initDebugOptions()
	testerCfg.Query = viper.GetString("query")
	testerCfg.Data.Path = viper.GetString("data.path")
	testerCfg.Data.Format = viper.GetString("data.format")
}

func initQueryCmd() {
	RootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVar(&testerCfg.Query, "query", "", "query text")
	queryCmd.Flags().StringVar(&testerCfg.Data.Path, "data_path", "", "foreign data path")
	queryCmd.Flags().StringVar(&testerCfg.Data.Format, "data_format", "", "foreign data format. parquet")

	viper.BindPFlag("query", queryCmd.Flags().Lookup("query"))
	viper.BindPFlag("data.path", queryCmd.Flags().Lookup("data_path"))
	viper.BindPFlag("data.format", queryCmd.Flags().Lookup("data_format"))
}

var defCfgFilePaths = []string{".", "etc"}
var cfgFileName = "tester.toml"

func loadConfig() {
	has := false
	for _, dirPath := range defCfgFilePaths {
		fpath := filepath.Join(dirPath, cfgFileName)
		if util.FileIsValid(fpath) {
			viper.SetConfigFile(fpath)
			err := viper.ReadInConfig()
			if err != nil {
				util.Error("viper load config file failed",
					zap.String("fpath", fpath),
					zap.Error(err))
				continue
			}
			has = true
			break
		}
	}
	if !has {
		util.Error("tester.toml does not exist")
		os.Exit(1)
	}
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
